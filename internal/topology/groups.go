package topology

import (
	"github.com/routescope/core/internal/models"
)

// endpointGroups builds the Consumers, Producers and OpenAPI clusters of the
// grouped view. REST nodes join the OpenAPI cluster when a descriptor exists,
// and the Consumers cluster otherwise.
func (ex *extraction) endpointGroups(descriptors []*models.APIDescriptor) []models.Node {
	var consumers, producers, openAPI []string

	for _, e := range ex.incoming {
		if !e.internal {
			consumers = append(consumers, e.nodeID())
		}
	}
	for _, e := range ex.outgoing {
		if !e.internal {
			producers = append(producers, e.nodeID())
		}
	}

	restIDs := make([]string, 0, len(ex.rests))
	for _, r := range ex.rests {
		restIDs = append(restIDs, restNodeID(r.rest.ID))
	}

	if len(descriptors) > 0 {
		for _, d := range descriptors {
			openAPI = append(openAPI, descriptorNodeID(d.Format))
		}
		openAPI = append(openAPI, restIDs...)
	} else {
		consumers = append(consumers, restIDs...)
	}

	return []models.Node{
		groupNode(consumersGroupID, "Consumers", models.GroupConsumers, consumers),
		groupNode(producersGroupID, "Producers", models.GroupProducers, producers),
		groupNode(openAPIGroupID, "OpenAPI", models.GroupOpenAPI, openAPI),
	}
}

// routeGroupNodes returns one cluster per distinct route group label, in the
// order labels first appear.
func (ex *extraction) routeGroupNodes() []models.Node {
	var labels orderedSet
	members := make(map[string][]string)

	for _, r := range ex.routes {
		label := r.route.Group
		if label == "" {
			continue
		}
		labels.add(label)
		members[label] = append(members[label], r.nodeID)
	}

	nodes := make([]models.Node, 0, len(labels.items))
	for _, label := range labels.values() {
		nodes = append(nodes, groupNode(label, label, models.GroupRoutes, members[label]))
	}
	return nodes
}

func groupNode(id, label string, kind models.GroupKind, children []string) models.Node {
	return models.Node{
		ID:       id,
		Type:     models.NodeGroup,
		Label:    label,
		Shape:    models.ShapeGroup,
		Children: children,
		Data:     models.GroupData{Kind: kind},
	}
}
