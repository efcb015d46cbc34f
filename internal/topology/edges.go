package topology

import (
	"fmt"
	"path"
	"strings"

	"github.com/routescope/core/internal/models"
)

// externalEndpointEdges links external incoming endpoints to their route and
// routes to their external outgoing endpoints.
func (ex *extraction) externalEndpointEdges() []models.Edge {
	var edges []models.Edge

	for _, e := range ex.incoming {
		if e.internal {
			continue
		}
		edges = append(edges, models.Edge{
			ID:       "edge-" + e.nodeID(),
			Source:   e.nodeID(),
			Target:   e.route.nodeID,
			Type:     models.EdgeIncoming,
			Style:    models.EdgeDashed,
			Animated: true,
		})
	}

	for _, e := range ex.outgoing {
		if e.internal {
			continue
		}
		edges = append(edges, models.Edge{
			ID:       "edge-" + e.nodeID(),
			Source:   e.route.nodeID,
			Target:   e.nodeID(),
			Type:     models.EdgeOutgoing,
			Style:    models.EdgeDashed,
			Animated: true,
		})
	}

	return edges
}

// crossURIEdges connects an external outgoing endpoint to every external
// incoming endpoint that shares its URI, e.g. a producer and a consumer of the
// same topic.
func (ex *extraction) crossURIEdges() []models.Edge {
	byURI := make(map[string][]endpoint)
	for _, in := range ex.incoming {
		if !in.internal {
			key := in.uri.String()
			byURI[key] = append(byURI[key], in)
		}
	}

	var edges []models.Edge
	for _, out := range ex.outgoing {
		if out.internal {
			continue
		}
		for _, in := range byURI[out.uri.String()] {
			edges = append(edges, models.Edge{
				ID:     "edge-" + out.nodeID() + "-" + in.nodeID(),
				Source: out.nodeID(),
				Target: in.nodeID(),
				Type:   models.EdgeCrossURI,
				Style:  models.EdgeDotted,
				Label:  out.uri.String(),
			})
		}
	}
	return edges
}

// internalEdges resolves internal outgoing endpoints to the routes consuming
// the same (scheme, name) pair. Misses are dropped.
func (ex *extraction) internalEdges() []models.Edge {
	var edges []models.Edge
	for _, out := range ex.outgoing {
		if !out.internal {
			continue
		}
		for _, target := range ex.consumers[out.uri.String()] {
			edges = append(edges, models.Edge{
				ID:       "edge-" + out.nodeID() + "-" + target.nodeID,
				Source:   out.route.nodeID,
				Target:   target.nodeID,
				Type:     models.EdgeInternal,
				Style:    models.EdgeSolid,
				Animated: true,
				Label:    out.uri.String(),
			})
		}
	}
	return edges
}

func (ex *extraction) restEdges() []models.Edge {
	var edges []models.Edge
	for _, r := range ex.rests {
		source := restNodeID(r.rest.ID)
		for _, verb := range r.rest.Verbs {
			if verb.To == "" {
				continue
			}
			uri := models.ParseEndpointURI(verb.To, nil)
			for _, target := range ex.consumers[uri.String()] {
				edges = append(edges, models.Edge{
					ID:     "edge-" + source + "-" + verb.ID + "-" + target.nodeID,
					Source: source,
					Target: target.nodeID,
					Type:   models.EdgeRest,
					Style:  models.EdgeSolid,
					Label:  verb.Method + " " + joinRestPath(r.rest.Path, verb.Path),
				})
			}
		}
	}
	return edges
}

// descriptorEdges binds every operation with an operation id to the route
// consuming direct:<operationId>.
func (ex *extraction) descriptorEdges(descriptors []*models.APIDescriptor) []models.Edge {
	var edges []models.Edge
	for _, d := range descriptors {
		source := descriptorNodeID(d.Format)
		for _, op := range d.Operations {
			if op.OperationID == "" {
				continue
			}
			uri := models.EndpointURI{Scheme: "direct", Name: op.OperationID}
			for _, target := range ex.consumers[uri.String()] {
				edges = append(edges, models.Edge{
					ID:     "edge-" + source + "-" + op.OperationID + "-" + target.nodeID,
					Source: source,
					Target: target.nodeID,
					Type:   models.EdgeOpenAPI,
					Style:  models.EdgeSolid,
					Label:  fmt.Sprintf("%s %s %s", op.Method, op.Path, op.Summary),
				})
			}
		}
	}
	return edges
}

func joinRestPath(base, sub string) string {
	if base == "" && sub == "" {
		return "/"
	}
	joined := path.Join("/", base, sub)
	if strings.HasSuffix(sub, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}
