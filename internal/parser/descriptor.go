package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/routescope/core/internal/models"
)

var openAPIMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

type apiInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type apiOperation struct {
	OperationID string          `json:"operationId"`
	Summary     string          `json:"summary"`
	Action      string          `json:"action"`
	Channel     json.RawMessage `json:"channel"`
}

type openAPIDocument struct {
	OpenAPI string                                `json:"openapi"`
	Swagger string                                `json:"swagger"`
	Info    apiInfo                               `json:"info"`
	Paths   map[string]map[string]json.RawMessage `json:"paths"`
}

type asyncAPIDocument struct {
	AsyncAPI   string                                `json:"asyncapi"`
	Info       apiInfo                               `json:"info"`
	Channels   map[string]map[string]json.RawMessage `json:"channels"`
	Operations map[string]apiOperation               `json:"operations"`
}

// ParseOpenAPI reads the operations of an OpenAPI (or Swagger 2) JSON document.
// Operations are ordered by path, then by HTTP method.
func ParseOpenAPI(data []byte) (*models.APIDescriptor, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty openapi data")
	}

	var doc openAPIDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal openapi: %w", err)
	}

	if doc.OpenAPI == "" && doc.Swagger == "" {
		return nil, fmt.Errorf("invalid openapi: missing openapi field")
	}

	descriptor := &models.APIDescriptor{
		Format:  models.FormatOpenAPI,
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
	}

	// Path items also carry parameters, summary, servers and $ref; only the
	// method keys are operations.
	for _, path := range sortedKeys(doc.Paths) {
		item := doc.Paths[path]
		for _, method := range openAPIMethods {
			raw, ok := item[method]
			if !ok {
				continue
			}
			var op apiOperation
			if err := json.Unmarshal(raw, &op); err != nil {
				return nil, fmt.Errorf("path %s %s: %w", path, method, err)
			}
			descriptor.Operations = append(descriptor.Operations, models.APIOperation{
				OperationID: op.OperationID,
				Method:      strings.ToUpper(method),
				Path:        path,
				Summary:     op.Summary,
			})
		}
	}

	return descriptor, nil
}

// ParseAsyncAPI reads the operations of an AsyncAPI JSON document. Version 2
// documents declare publish/subscribe under channels; version 3 documents
// declare a top-level operations map that references channels.
func ParseAsyncAPI(data []byte) (*models.APIDescriptor, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty asyncapi data")
	}

	var doc asyncAPIDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asyncapi: %w", err)
	}

	if doc.AsyncAPI == "" {
		return nil, fmt.Errorf("invalid asyncapi: missing asyncapi field")
	}

	descriptor := &models.APIDescriptor{
		Format:  models.FormatAsyncAPI,
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
	}

	if len(doc.Operations) > 0 {
		for _, id := range sortedKeys(doc.Operations) {
			op := doc.Operations[id]
			descriptor.Operations = append(descriptor.Operations, models.APIOperation{
				OperationID: id,
				Method:      strings.ToUpper(op.Action),
				Path:        channelRef(op.Channel),
				Summary:     op.Summary,
			})
		}
		return descriptor, nil
	}

	for _, channel := range sortedKeys(doc.Channels) {
		for _, action := range []string{"publish", "subscribe"} {
			raw, ok := doc.Channels[channel][action]
			if !ok {
				continue
			}
			var op apiOperation
			if err := json.Unmarshal(raw, &op); err != nil {
				return nil, fmt.Errorf("channel %s %s: %w", channel, action, err)
			}
			descriptor.Operations = append(descriptor.Operations, models.APIOperation{
				OperationID: op.OperationID,
				Method:      strings.ToUpper(action),
				Path:        channel,
				Summary:     op.Summary,
			})
		}
	}

	return descriptor, nil
}

func channelRef(raw json.RawMessage) string {
	var ref struct {
		Ref string `json:"$ref"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &ref) != nil {
		return ""
	}
	return ref.Ref[strings.LastIndex(ref.Ref, "/")+1:]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
