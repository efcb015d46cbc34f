// Package parser turns raw route files and API descriptor documents into the
// typed model consumed by the topology builder.
package parser

import (
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/routescope/core/internal/models"
)

var DefaultFileSuffixes = []string{".camel.yaml", ".camel.yml"}

var producerSteps = map[string]bool{
	"to":         true,
	"toD":        true,
	"wireTap":    true,
	"enrich":     true,
	"pollEnrich": true,
	"poll":       true,
	"kamelet":    true,
}

var restVerbs = []string{"get", "post", "put", "delete", "patch", "head"}

// ParseError reports a route file that could not be turned into a model.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsIntegrationFile reports whether name carries one of the route file suffixes.
func IsIntegrationFile(name string, suffixes []string) bool {
	if len(suffixes) == 0 {
		suffixes = DefaultFileSuffixes
	}
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// ParseIntegration decodes a YAML route file. Both the plain list form and the
// Integration resource form (spec.flows) are accepted.
func ParseIntegration(name string, data []byte) (*models.Integration, error) {
	var doc yaml.Node
	integration, _, err := decode(name, data, &doc, nil)
	return integration, err
}

func decode(name string, data []byte, doc *yaml.Node, visit func(Element)) (*models.Integration, *yaml.Node, error) {
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, nil, &ParseError{File: name, Err: fmt.Errorf("failed to unmarshal yaml: %w", err)}
	}

	integration := &models.Integration{FileName: name}
	if len(doc.Content) == 0 {
		return integration, nil, nil
	}

	flows := doc.Content[0]
	if flows.Kind == yaml.MappingNode {
		flows = mappingValue(mappingValue(flows, "spec"), "flows")
		if flows == nil {
			return nil, nil, &ParseError{File: name, Err: fmt.Errorf("integration resource without spec.flows")}
		}
	}
	if flows.Kind != yaml.SequenceNode {
		return nil, nil, &ParseError{File: name, Err: fmt.Errorf("line %d: expected a list of definitions", flows.Line)}
	}

	p := &fileParser{base: fileBase(name), visit: visit}
	for i, item := range flows.Content {
		p.index = i
		if err := p.parseDefinition(integration, item); err != nil {
			return nil, nil, &ParseError{File: name, Err: err}
		}
	}

	return integration, flows, nil
}

type fileParser struct {
	base  string
	index int
	visit func(Element)
}

func (p *fileParser) emit(kind ElementKind, id string, parent *yaml.Node, key string) {
	if p.visit != nil {
		p.visit(Element{Kind: kind, ID: id, Index: p.index, Parent: parent, Key: key})
	}
}

func (p *fileParser) parseDefinition(integration *models.Integration, item *yaml.Node) error {
	if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
		return fmt.Errorf("line %d: definition must be a single-key mapping", item.Line)
	}

	kind, body := item.Content[0].Value, item.Content[1]
	switch kind {
	case "route":
		route, err := p.parseRoute(body, item, kind)
		if err != nil {
			return err
		}
		integration.Routes = append(integration.Routes, route)
	case "routeTemplate":
		inner := mappingValue(body, "route")
		if inner == nil {
			return fmt.Errorf("line %d: route template without route", body.Line)
		}
		route, err := p.parseRoute(inner, body, "route")
		if err != nil {
			return err
		}
		route.TemplateID = scalar(body, "id")
		if route.TemplateID == "" {
			route.TemplateID = fmt.Sprintf("%s-template-%d", p.base, p.index+1)
		}
		integration.Routes = append(integration.Routes, route)
	case "routeConfiguration":
		rc := p.parseRouteConfiguration(body)
		p.emit(ElementRouteConfiguration, rc.ID, item, kind)
		integration.RouteConfigurations = append(integration.RouteConfigurations, rc)
	case "rest":
		rest, err := p.parseRest(body)
		if err != nil {
			return err
		}
		p.emit(ElementRest, rest.ID, item, kind)
		integration.Rests = append(integration.Rests, rest)
	}

	return nil
}

func (p *fileParser) parseRoute(body, parent *yaml.Node, key string) (models.Route, error) {
	if body.Kind != yaml.MappingNode {
		return models.Route{}, fmt.Errorf("line %d: route must be a mapping", body.Line)
	}

	route := models.Route{
		ID:                   scalar(body, "id"),
		Description:          scalar(body, "description"),
		Group:                scalar(body, "group"),
		AutoStartup:          boolean(body, "autoStartup", true),
		RouteConfigurationID: scalar(body, "routeConfigurationId"),
	}
	if route.ID == "" {
		route.ID = fmt.Sprintf("%s-route-%d", p.base, p.index+1)
	}
	p.emit(ElementRoute, route.ID, parent, key)

	from := mappingValue(body, "from")
	if from == nil {
		return models.Route{}, fmt.Errorf("line %d: route %q has no from", body.Line, route.ID)
	}

	ids := newStepIDs()
	step, err := p.parseStep("from", from, ids, body)
	if err != nil {
		return models.Route{}, fmt.Errorf("route %q: %w", route.ID, err)
	}
	route.From = step

	if eh := mappingValue(body, "errorHandler"); eh != nil {
		if dlc := mappingValue(eh, "deadLetterChannel"); dlc != nil {
			route.ErrorHandler = &models.ErrorHandler{
				ID:            scalar(dlc, "id"),
				DeadLetterURI: scalar(dlc, "deadLetterUri"),
			}
			if route.ErrorHandler.ID == "" {
				route.ErrorHandler.ID = ids.next("deadLetterChannel")
			}
			p.emit(ElementErrorHandler, route.ErrorHandler.ID, eh, "deadLetterChannel")
		}
	}

	return route, nil
}

func (p *fileParser) parseRouteConfiguration(body *yaml.Node) models.RouteConfiguration {
	rc := models.RouteConfiguration{
		ID:          scalar(body, "id"),
		Description: scalar(body, "description"),
	}
	if rc.ID == "" {
		rc.ID = fmt.Sprintf("%s-configuration-%d", p.base, p.index+1)
	}
	return rc
}

func (p *fileParser) parseRest(body *yaml.Node) (models.Rest, error) {
	if body.Kind != yaml.MappingNode {
		return models.Rest{}, fmt.Errorf("line %d: rest must be a mapping", body.Line)
	}

	rest := models.Rest{
		ID:          scalar(body, "id"),
		Path:        scalar(body, "path"),
		Description: scalar(body, "description"),
		OpenAPISpec: scalar(mappingValue(body, "openApi"), "specification"),
	}
	if rest.ID == "" {
		rest.ID = fmt.Sprintf("%s-rest-%d", p.base, p.index+1)
	}

	for _, method := range restVerbs {
		node := mappingValue(body, method)
		if node == nil {
			continue
		}

		items := []*yaml.Node{node}
		if node.Kind == yaml.SequenceNode {
			items = node.Content
		}

		for _, item := range items {
			if item.Kind != yaml.MappingNode {
				return models.Rest{}, fmt.Errorf("line %d: %s verb must be a mapping", item.Line, method)
			}
			verb := models.RestVerb{
				ID:     scalar(item, "id"),
				Method: strings.ToUpper(method),
				Path:   scalar(item, "path"),
			}
			if to := mappingValue(item, "to"); to != nil {
				if to.Kind == yaml.ScalarNode {
					verb.To = to.Value
				} else {
					verb.To = scalar(to, "uri")
				}
			}
			if verb.ID == "" {
				verb.ID = fmt.Sprintf("%s-%s-%d", rest.ID, method, len(rest.Verbs)+1)
			}
			rest.Verbs = append(rest.Verbs, verb)
		}
	}

	return rest, nil
}

// parseStep decodes the step stored under name in parent.
func (p *fileParser) parseStep(name string, body *yaml.Node, ids *stepIDs, parent *yaml.Node) (models.Step, error) {
	step := models.Step{Name: name}

	switch body.Kind {
	case yaml.ScalarNode:
		if producerSteps[name] {
			step.URI = stepURI(name, body.Value)
		}
	case yaml.MappingNode:
		step.ID = scalar(body, "id")
		step.Disabled = boolean(body, "disabled", false)
		step.Parameters = parameters(mappingValue(body, "parameters"))
		if name == "from" || producerSteps[name] {
			if name == "kamelet" {
				step.URI = stepURI(name, scalar(body, "name"))
			} else {
				step.URI = scalar(body, "uri")
			}
		}

		children, err := p.collectSteps(body, ids)
		if err != nil {
			return models.Step{}, err
		}
		step.Steps = children
	}

	if step.ID == "" {
		step.ID = ids.next(name)
	}
	p.emit(ElementStep, step.ID, parent, name)

	return step, nil
}

// collectSteps gathers every "steps" list nested anywhere under n, such as
// choice branches or doTry catch blocks.
func (p *fileParser) collectSteps(n *yaml.Node, ids *stepIDs) ([]models.Step, error) {
	var steps []models.Step

	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i].Value, n.Content[i+1]
			switch {
			case key == "parameters":
				// endpoint options never hold steps
			case key == "steps" && value.Kind == yaml.SequenceNode:
				list, err := p.parseStepList(value, ids)
				if err != nil {
					return nil, err
				}
				steps = append(steps, list...)
			default:
				nested, err := p.collectSteps(value, ids)
				if err != nil {
					return nil, err
				}
				steps = append(steps, nested...)
			}
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			nested, err := p.collectSteps(item, ids)
			if err != nil {
				return nil, err
			}
			steps = append(steps, nested...)
		}
	}

	return steps, nil
}

func (p *fileParser) parseStepList(seq *yaml.Node, ids *stepIDs) ([]models.Step, error) {
	steps := make([]models.Step, 0, len(seq.Content))
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("line %d: step must be a single-key mapping", item.Line)
		}
		step, err := p.parseStep(item.Content[0].Value, item.Content[1], ids, item)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func stepURI(name, value string) string {
	if name == "kamelet" && value != "" {
		return "kamelet:" + value
	}
	return value
}

type stepIDs struct {
	counts map[string]int
}

func newStepIDs() *stepIDs {
	return &stepIDs{counts: make(map[string]int)}
}

func (s *stepIDs) next(name string) string {
	s.counts[name]++
	return fmt.Sprintf("%s-%d", name, s.counts[name])
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func scalar(n *yaml.Node, key string) string {
	v := mappingValue(n, key)
	if v == nil || v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
		return ""
	}
	return v.Value
}

func boolean(n *yaml.Node, key string, fallback bool) bool {
	v := mappingValue(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return fallback
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		return fallback
	}
	return b
}

func parameters(n *yaml.Node) map[string]string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	params := make(map[string]string, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if v := n.Content[i+1]; v.Kind == yaml.ScalarNode {
			params[n.Content[i].Value] = v.Value
		}
	}
	return params
}

func fileBase(name string) string {
	base := path.Base(name)
	for _, s := range DefaultFileSuffixes {
		base = strings.TrimSuffix(base, s)
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
