package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

type ElementKind string

const (
	ElementRoute              ElementKind = "route"
	ElementRouteConfiguration ElementKind = "routeConfiguration"
	ElementRest               ElementKind = "rest"
	ElementStep               ElementKind = "step"
	ElementErrorHandler       ElementKind = "errorHandler"
)

// Element locates one identified element of a route file. The element's value
// is stored under Key in the Parent mapping; Index is the position of its
// top-level definition in the flows list.
type Element struct {
	Kind   ElementKind
	ID     string
	Index  int
	Parent *yaml.Node
	Key    string
}

// Value returns the element's node as currently stored in its parent.
func (e Element) Value() *yaml.Node {
	return mappingValue(e.Parent, e.Key)
}

// Document is a route file decoded for editing. Element ids match the ones
// ParseIntegration assigns, generated ids included.
type Document struct {
	Name     string
	Root     yaml.Node
	Flows    *yaml.Node
	Elements []Element
}

// DecodeDocument parses a route file and indexes its elements.
func DecodeDocument(name string, data []byte) (*Document, error) {
	doc := &Document{Name: name}
	_, flows, err := decode(name, data, &doc.Root, func(e Element) {
		doc.Elements = append(doc.Elements, e)
	})
	if err != nil {
		return nil, err
	}
	doc.Flows = flows
	return doc, nil
}

// Find returns the first element of the given kind with the given id. An
// empty kind matches any element.
func (d *Document) Find(kind ElementKind, id string) (Element, bool) {
	for _, e := range d.Elements {
		if e.ID == id && (kind == "" || e.Kind == kind) {
			return e, true
		}
	}
	return Element{}, false
}

// FindInRoute is Find restricted to the definition holding routeID. Generated
// step ids restart in every route, so they are only unique within one.
func (d *Document) FindInRoute(routeID string, kind ElementKind, id string) (Element, bool) {
	route, ok := d.Find(ElementRoute, routeID)
	if !ok {
		return Element{}, false
	}
	for _, e := range d.Elements {
		if e.Index == route.Index && e.ID == id && (kind == "" || e.Kind == kind) {
			return e, true
		}
	}
	return Element{}, false
}

// Encode renders the document back to YAML with two-space indentation.
func (d *Document) Encode() ([]byte, error) {
	if d.Root.Kind == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d.Root); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.Name, err)
	}
	return buf.Bytes(), nil
}

// SetScalar sets key in mapping n, appending it when absent.
func SetScalar(n *yaml.Node, key, value, tag string) {
	if v := mappingValue(n, key); v != nil {
		v.Kind = yaml.ScalarNode
		v.Tag = tag
		v.Value = value
		v.Content = nil
		return
	}
	n.Content = append(n.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
	)
}

// RemoveKey deletes key from mapping n and reports whether it was present.
func RemoveKey(n *yaml.Node, key string) bool {
	if n == nil || n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			n.Content = append(n.Content[:i], n.Content[i+2:]...)
			return true
		}
	}
	return false
}
