package models

type DescriptorFormat string

const (
	FormatOpenAPI  DescriptorFormat = "openapi"
	FormatAsyncAPI DescriptorFormat = "asyncapi"
)

// APIDescriptor is the subset of an OpenAPI or AsyncAPI document the topology
// needs: a title and the operations that can be bound to routes.
type APIDescriptor struct {
	Format     DescriptorFormat
	Title      string
	Version    string
	Operations []APIOperation
}

// APIOperation is an HTTP operation for OpenAPI, or a channel action for
// AsyncAPI (Method holds the action, Path the channel).
type APIOperation struct {
	OperationID string
	Method      string
	Path        string
	Summary     string
}
