package topology

import (
	"github.com/routescope/core/internal/models"
)

type routeEntry struct {
	route    models.Route
	fileName string
	nodeID   string
	incoming models.EndpointURI
}

type configEntry struct {
	config   models.RouteConfiguration
	fileName string
}

type restEntry struct {
	rest     models.Rest
	fileName string
}

type endpoint struct {
	direction models.Direction
	route     *routeEntry
	stepID    string
	stepName  string
	rawURI    string
	uri       models.EndpointURI
	internal  bool
}

func (e endpoint) nodeID() string {
	if e.direction == models.DirectionIncoming {
		return incomingNodeID(e.route.route.ID)
	}
	return outgoingNodeID(e.route.route.ID, e.stepID)
}

// extraction holds everything pulled out of the parsed files for one build.
type extraction struct {
	routes   []*routeEntry
	configs  []configEntry
	rests    []restEntry
	incoming []endpoint
	outgoing []endpoint

	consumers map[string][]*routeEntry
}

func (b *Builder) extract(integrations []*models.Integration) *extraction {
	ex := &extraction{consumers: make(map[string][]*routeEntry)}
	seenRoutes := make(map[string]bool)

	for _, integration := range integrations {
		for _, route := range integration.Routes {
			if seenRoutes[route.ID] {
				continue
			}
			seenRoutes[route.ID] = true

			entry := &routeEntry{
				route:    route,
				fileName: integration.FileName,
				nodeID:   routeNodeID(route.ID),
				incoming: route.From.Endpoint(),
			}
			ex.routes = append(ex.routes, entry)

			if !entry.incoming.IsZero() {
				key := entry.incoming.String()
				ex.consumers[key] = append(ex.consumers[key], entry)
				ex.incoming = append(ex.incoming, endpoint{
					direction: models.DirectionIncoming,
					route:     entry,
					stepID:    route.From.ID,
					stepName:  route.From.Name,
					rawURI:    route.From.URI,
					uri:       entry.incoming,
					internal:  b.internal[entry.incoming.Scheme],
				})
			}

			ex.outgoing = append(ex.outgoing, b.outgoingEndpoints(entry)...)
		}

		for _, rc := range integration.RouteConfigurations {
			ex.configs = append(ex.configs, configEntry{config: rc, fileName: integration.FileName})
		}

		for _, rest := range integration.Rests {
			ex.rests = append(ex.rests, restEntry{rest: rest, fileName: integration.FileName})
		}
	}

	return ex
}

// outgoingEndpoints walks the route's step tree depth first, skipping
// disabled branches, then adds the dead letter channel of its error handler.
func (b *Builder) outgoingEndpoints(entry *routeEntry) []endpoint {
	var out []endpoint

	var walk func(steps []models.Step)
	walk = func(steps []models.Step) {
		for _, step := range steps {
			if step.Disabled {
				continue
			}
			if step.IsProducer() {
				uri := step.Endpoint()
				if !uri.IsZero() {
					out = append(out, endpoint{
						direction: models.DirectionOutgoing,
						route:     entry,
						stepID:    step.ID,
						stepName:  step.Name,
						rawURI:    step.URI,
						uri:       uri,
						internal:  b.internal[uri.Scheme],
					})
				}
			}
			walk(step.Steps)
		}
	}
	walk(entry.route.From.Steps)

	if eh := entry.route.ErrorHandler; eh != nil && eh.DeadLetterURI != "" {
		uri := models.ParseEndpointURI(eh.DeadLetterURI, nil)
		out = append(out, endpoint{
			direction: models.DirectionOutgoing,
			route:     entry,
			stepID:    eh.ID,
			stepName:  "deadLetterChannel",
			rawURI:    eh.DeadLetterURI,
			uri:       uri,
			internal:  b.internal[uri.Scheme],
		})
	}

	return out
}

func (ex *extraction) routeNodes() []models.Node {
	nodes := make([]models.Node, 0, len(ex.routes))
	for _, r := range ex.routes {
		label := r.route.Description
		if label == "" {
			label = r.route.ID
		}
		nodes = append(nodes, models.Node{
			ID:       r.nodeID,
			Type:     models.NodeRoute,
			Label:    label,
			Shape:    models.ShapeEllipse,
			Width:    models.RouteDiameter,
			Height:   models.RouteDiameter,
			Icon:     "route",
			FileName: r.fileName,
			Data: models.RouteData{
				RouteID:              r.route.ID,
				Description:          r.route.Description,
				TemplateID:           r.route.TemplateID,
				Group:                r.route.Group,
				AutoStartup:          r.route.AutoStartup,
				RouteConfigurationID: r.route.RouteConfigurationID,
			},
		})
	}
	return nodes
}

func (ex *extraction) routeConfigurationNodes() []models.Node {
	nodes := make([]models.Node, 0, len(ex.configs))
	for _, c := range ex.configs {
		label := c.config.Description
		if label == "" {
			label = c.config.ID
		}
		nodes = append(nodes, models.Node{
			ID:       routeConfigurationNodeID(c.config.ID),
			Type:     models.NodeRouteConfiguration,
			Label:    label,
			Shape:    models.ShapeRhombus,
			Width:    models.EndpointDiameter,
			Height:   models.EndpointDiameter,
			Icon:     "route-configuration",
			FileName: c.fileName,
			Data: models.RouteConfigurationData{
				ConfigurationID: c.config.ID,
				Description:     c.config.Description,
			},
		})
	}
	return nodes
}

func (ex *extraction) restNodes() []models.Node {
	nodes := make([]models.Node, 0, len(ex.rests))
	for _, r := range ex.rests {
		var uris []string
		for _, v := range r.rest.Verbs {
			if v.To != "" {
				uris = append(uris, v.To)
			}
		}

		label := r.rest.Path
		if label == "" && r.rest.OpenAPISpec != "" {
			label = r.rest.OpenAPISpec
		}
		if label == "" {
			label = r.rest.ID
		}

		nodes = append(nodes, models.Node{
			ID:       restNodeID(r.rest.ID),
			Type:     models.NodeRest,
			Label:    label,
			Shape:    models.ShapeRectangle,
			Width:    models.EndpointDiameter,
			Height:   models.EndpointDiameter,
			Icon:     "rest",
			FileName: r.fileName,
			Data: models.RestData{
				RestID:  r.rest.ID,
				Path:    r.rest.Path,
				URIs:    uris,
				OpenAPI: r.rest.OpenAPISpec,
			},
		})
	}
	return nodes
}

// externalEndpointNodes emits one node per external incoming and outgoing
// endpoint. Internal endpoints become route-to-route edges instead.
func (ex *extraction) externalEndpointNodes() []models.Node {
	var nodes []models.Node
	for _, e := range ex.incoming {
		if !e.internal {
			nodes = append(nodes, endpointNode(e))
		}
	}
	for _, e := range ex.outgoing {
		if !e.internal {
			nodes = append(nodes, endpointNode(e))
		}
	}
	return nodes
}

func endpointNode(e endpoint) models.Node {
	data := models.EndpointData{
		Direction:     e.direction,
		RouteID:       e.route.route.ID,
		StepID:        e.stepID,
		StepName:      e.stepName,
		URI:           e.rawURI,
		UniqueURI:     e.uri.String(),
		ConnectorType: e.uri.Scheme,
		Internal:      e.internal,
	}
	return models.Node{
		ID:       e.nodeID(),
		Type:     data.NodeType(),
		Label:    e.uri.String(),
		Shape:    models.ShapeEllipse,
		Width:    models.EndpointDiameter,
		Height:   models.EndpointDiameter,
		Icon:     e.uri.Scheme,
		FileName: e.route.fileName,
		Data:     data,
	}
}

func descriptorNodes(descriptors []*models.APIDescriptor) []models.Node {
	nodes := make([]models.Node, 0, len(descriptors))
	for _, d := range descriptors {
		label := d.Title
		if label == "" {
			label = descriptorLabel(d.Format)
		}
		nodes = append(nodes, models.Node{
			ID:     descriptorNodeID(d.Format),
			Type:   models.NodeDescriptor,
			Label:  label,
			Shape:  models.ShapeHexagon,
			Width:  models.EndpointDiameter,
			Height: models.EndpointDiameter,
			Icon:   string(d.Format),
			Data: models.DescriptorData{
				Format:     d.Format,
				Title:      d.Title,
				Version:    d.Version,
				Operations: len(d.Operations),
			},
		})
	}
	return nodes
}

func descriptorLabel(f models.DescriptorFormat) string {
	if f == models.FormatAsyncAPI {
		return "AsyncAPI"
	}
	return "OpenAPI"
}

// routeGroups maps route ids to their non-empty group label.
func (ex *extraction) routeGroups() map[string]string {
	groups := make(map[string]string)
	for _, r := range ex.routes {
		if r.route.Group != "" {
			groups[r.route.ID] = r.route.Group
		}
	}
	return groups
}
