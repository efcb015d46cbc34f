package workspace

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/routescope/core/internal/interaction"
	"github.com/routescope/core/internal/parser"
)

// shorthandFields maps step names to the field their scalar shorthand expands to.
var shorthandFields = map[string]string{
	"kamelet": "name",
	"log":     "message",
}

func decodeForEdit(name string, code []byte) (*parser.Document, error) {
	doc, err := parser.DecodeDocument(name, code)
	if err != nil {
		return nil, interaction.NewError(interaction.CodeInvalidArgument, err.Error())
	}
	return doc, nil
}

func findRoute(doc *parser.Document, routeID string) (parser.Element, error) {
	route, ok := doc.Find(parser.ElementRoute, routeID)
	if !ok {
		return parser.Element{}, interaction.NewError(interaction.CodeElementNotFound,
			fmt.Sprintf("route %q not found in %s", routeID, doc.Name))
	}
	return route, nil
}

// deleteRoute removes the definition holding routeID from the flows list.
func deleteRoute(name string, code []byte, routeID string) ([]byte, error) {
	doc, err := decodeForEdit(name, code)
	if err != nil {
		return nil, err
	}
	route, err := findRoute(doc, routeID)
	if err != nil {
		return nil, err
	}

	doc.Flows.Content = append(doc.Flows.Content[:route.Index], doc.Flows.Content[route.Index+1:]...)
	return doc.Encode()
}

// setRouteGroup sets the route's group, or clears it when group is empty.
func setRouteGroup(name string, code []byte, routeID, group string) ([]byte, error) {
	doc, err := decodeForEdit(name, code)
	if err != nil {
		return nil, err
	}
	route, err := findRoute(doc, routeID)
	if err != nil {
		return nil, err
	}

	if group == "" {
		parser.RemoveKey(route.Value(), "group")
	} else {
		parser.SetScalar(route.Value(), "group", group, "!!str")
	}
	return doc.Encode()
}

// setDisabled toggles the disabled flag of the element with the given id
// inside route routeID, or anywhere in the file when routeID is empty. Scalar
// shorthand steps are expanded into a mapping first.
func setDisabled(name string, code []byte, routeID, elementID string, disabled bool) ([]byte, error) {
	doc, err := decodeForEdit(name, code)
	if err != nil {
		return nil, err
	}

	find := doc.Find
	if routeID != "" {
		if _, err := findRoute(doc, routeID); err != nil {
			return nil, err
		}
		find = func(kind parser.ElementKind, id string) (parser.Element, bool) {
			return doc.FindInRoute(routeID, kind, id)
		}
	}

	element, ok := find(parser.ElementStep, elementID)
	if !ok {
		element, ok = find("", elementID)
	}
	if !ok {
		return nil, interaction.NewError(interaction.CodeElementNotFound,
			fmt.Sprintf("element %q not found in %s", elementID, name))
	}

	value := element.Value()
	switch value.Kind {
	case yaml.ScalarNode:
		if !disabled {
			return code, nil
		}
		expandShorthand(value, element.Key)
	case yaml.MappingNode:
	default:
		return nil, interaction.NewError(interaction.CodeInvalidArgument,
			fmt.Sprintf("element %q cannot be disabled", elementID))
	}

	if disabled {
		parser.SetScalar(value, "disabled", "true", "!!bool")
	} else {
		parser.RemoveKey(value, "disabled")
	}
	return doc.Encode()
}

// expandShorthand rewrites `to: direct:a` as `to: {uri: direct:a}` in place.
func expandShorthand(n *yaml.Node, stepName string) {
	field, ok := shorthandFields[stepName]
	if !ok {
		field = "uri"
	}
	scalar := *n
	*n = yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: field},
			&scalar,
		},
	}
}
