package topology

import (
	"github.com/routescope/core/internal/models"
)

// uniqueURIEntry accumulates every external endpoint sharing one URI.
type uniqueURIEntry struct {
	uri           string
	connectorType string
	incoming      orderedSet
	outgoing      orderedSet
}

// uniqueURIIndex is the URI-keyed arena produced by foldUniqueURIs. Entries
// keep the order in which their URI was first seen.
type uniqueURIIndex struct {
	order   []string
	entries map[string]*uniqueURIEntry
}

// foldUniqueURIs merges external endpoints by URI. Route ids are unioned, so
// two producers of the same URI from one route count once.
func foldUniqueURIs(incoming, outgoing []endpoint) *uniqueURIIndex {
	idx := &uniqueURIIndex{entries: make(map[string]*uniqueURIEntry)}

	for _, e := range incoming {
		if !e.internal {
			idx.entry(e).incoming.add(e.route.route.ID)
		}
	}
	for _, e := range outgoing {
		if !e.internal {
			idx.entry(e).outgoing.add(e.route.route.ID)
		}
	}

	return idx
}

func (idx *uniqueURIIndex) entry(e endpoint) *uniqueURIEntry {
	key := e.uri.String()
	if entry, ok := idx.entries[key]; ok {
		return entry
	}
	entry := &uniqueURIEntry{uri: key, connectorType: e.uri.Scheme}
	idx.entries[key] = entry
	idx.order = append(idx.order, key)
	return entry
}

func (idx *uniqueURIIndex) len() int {
	return len(idx.order)
}

// nodes finalizes the arena into node records. routeGroups maps route ids to
// their group label.
func (idx *uniqueURIIndex) nodes(routeGroups map[string]string) []models.Node {
	nodes := make([]models.Node, 0, len(idx.order))
	for _, key := range idx.order {
		entry := idx.entries[key]

		var groups orderedSet
		for _, id := range entry.incoming.values() {
			groups.add(routeGroups[id])
		}
		for _, id := range entry.outgoing.values() {
			groups.add(routeGroups[id])
		}

		nodes = append(nodes, models.Node{
			ID:     uniqueURINodeID(entry.uri),
			Type:   models.NodeUniqueURI,
			Label:  entry.uri,
			Shape:  models.ShapeEllipse,
			Width:  models.EndpointDiameter,
			Height: models.EndpointDiameter,
			Icon:   entry.connectorType,
			Data: models.UniqueURIData{
				URI:              entry.uri,
				ConnectorType:    entry.connectorType,
				IncomingRouteIDs: entry.incoming.values(),
				OutgoingRouteIDs: entry.outgoing.values(),
				Groups:           groups.values(),
			},
		})
	}
	return nodes
}

// edges links each merge node to the routes consuming from it and each
// producing route to the merge node.
func (idx *uniqueURIIndex) edges() []models.Edge {
	var edges []models.Edge
	for _, key := range idx.order {
		entry := idx.entries[key]
		nodeID := uniqueURINodeID(entry.uri)

		for _, routeID := range entry.incoming.values() {
			edges = append(edges, models.Edge{
				ID:       "edge-" + nodeID + "-" + routeNodeID(routeID),
				Source:   nodeID,
				Target:   routeNodeID(routeID),
				Type:     models.EdgeIncoming,
				Style:    models.EdgeDashed,
				Animated: true,
			})
		}
		for _, routeID := range entry.outgoing.values() {
			edges = append(edges, models.Edge{
				ID:       "edge-" + routeNodeID(routeID) + "-" + nodeID,
				Source:   routeNodeID(routeID),
				Target:   nodeID,
				Type:     models.EdgeOutgoing,
				Style:    models.EdgeDashed,
				Animated: true,
			})
		}
	}
	return edges
}

// orderedSet is a string set that remembers insertion order. Empty strings
// are ignored.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

func (s *orderedSet) values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
