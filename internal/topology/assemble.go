package topology

import (
	"go.uber.org/zap"

	"github.com/routescope/core/internal/models"
)

// assemble deduplicates nodes and edges by id, drops edges whose source or
// target is unknown, and trims group children to known nodes. Groups left
// empty are dropped. A group whose id is already taken by a node or an
// earlier group is dropped with a warning.
func assemble(nodes []models.Node, edges []models.Edge, groups []models.Node, logger *zap.Logger) *models.Graph {
	graph := &models.Graph{
		Nodes:  make([]models.Node, 0, len(nodes)),
		Edges:  make([]models.Edge, 0, len(edges)),
		Groups: make([]models.Node, 0, len(groups)),
	}
	nodeMap := make(map[string]bool, len(nodes))

	for _, n := range nodes {
		if nodeMap[n.ID] {
			continue
		}
		nodeMap[n.ID] = true
		graph.Nodes = append(graph.Nodes, n)
	}

	edgeMap := make(map[string]bool, len(edges))
	for _, e := range edges {
		if edgeMap[e.ID] || !nodeMap[e.Source] || !nodeMap[e.Target] {
			continue
		}
		edgeMap[e.ID] = true
		graph.Edges = append(graph.Edges, e)
	}

	groupMap := make(map[string]bool, len(groups))
	for _, g := range groups {
		children := make([]string, 0, len(g.Children))
		for _, id := range g.Children {
			if nodeMap[id] {
				children = append(children, id)
			}
		}
		if len(children) == 0 {
			continue
		}
		if groupMap[g.ID] || nodeMap[g.ID] {
			logger.Warn("Group id already in use, group dropped",
				zap.String("group", g.ID),
				zap.String("label", g.Label))
			continue
		}
		g.Children = children
		groupMap[g.ID] = true
		graph.Groups = append(graph.Groups, g)
	}

	graph.Stats = buildStats(graph)
	return graph
}

func buildStats(graph *models.Graph) *models.Stats {
	stats := &models.Stats{
		TotalNodes:  len(graph.Nodes),
		TotalEdges:  len(graph.Edges),
		TotalGroups: len(graph.Groups),
		NodesByType: make(map[string]int),
		EdgesByType: make(map[string]int),
	}
	for _, n := range graph.Nodes {
		stats.NodesByType[string(n.Type)]++
	}
	for _, e := range graph.Edges {
		stats.EdgesByType[string(e.Type)]++
	}
	return stats
}
