// Package models defines the core data structures shared by the parser, the
// topology builder and the HTTP layer.
package models

// IntegrationFile is one raw route file as supplied by the caller.
type IntegrationFile struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Integration is the parsed content of one route file.
type Integration struct {
	FileName            string
	Routes              []Route
	RouteConfigurations []RouteConfiguration
	Rests               []Rest
}

type Route struct {
	ID                   string
	Description          string
	Group                string
	AutoStartup          bool
	TemplateID           string
	RouteConfigurationID string
	From                 Step
	ErrorHandler         *ErrorHandler
}

// Step is a node of a route's step tree. Producer steps carry a URI; Steps
// holds every nested step list (choice branches, split bodies, ...) in
// document order.
type Step struct {
	ID         string
	Name       string
	URI        string
	Parameters map[string]string
	Disabled   bool
	Steps      []Step
}

func (s Step) IsProducer() bool {
	return s.URI != ""
}

// Endpoint resolves the step URI together with its parameters.
func (s Step) Endpoint() EndpointURI {
	return ParseEndpointURI(s.URI, s.Parameters)
}

type ErrorHandler struct {
	ID            string
	DeadLetterURI string
}

type RouteConfiguration struct {
	ID          string
	Description string
}

type Rest struct {
	ID          string
	Path        string
	Description string
	Verbs       []RestVerb
	OpenAPISpec string
}

type RestVerb struct {
	ID     string
	Method string
	Path   string
	To     string
}
