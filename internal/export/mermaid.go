package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/routescope/core/internal/models"
)

type MermaidGenerator struct{}

// Generate emits a left-to-right flowchart. Node ids are replaced with short
// positional aliases because Mermaid ids cannot hold URI characters.
func (g *MermaidGenerator) Generate(name string, graph *models.Graph) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("nil graph")
	}

	aliases := make(map[string]string, len(graph.Nodes))
	for i, node := range graph.Nodes {
		aliases[node.ID] = fmt.Sprintf("n%d", i)
	}

	grouped := make(map[string]bool)
	for _, group := range graph.Groups {
		for _, child := range group.Children {
			grouped[child] = true
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "---\ntitle: %s\n---\n", mermaidText(name))
	b.WriteString("flowchart LR\n")

	for _, node := range graph.Nodes {
		if !grouped[node.ID] {
			fmt.Fprintf(&b, "  %s\n", mermaidNode(aliases[node.ID], node))
		}
	}

	byID := make(map[string]models.Node, len(graph.Nodes))
	for _, node := range graph.Nodes {
		byID[node.ID] = node
	}
	declared := make(map[string]bool)
	for i, group := range graph.Groups {
		fmt.Fprintf(&b, "  subgraph g%d[\"%s\"]\n", i, mermaidText(group.Label))
		for _, child := range group.Children {
			node, ok := byID[child]
			if !ok || declared[child] {
				continue
			}
			declared[child] = true
			fmt.Fprintf(&b, "    %s\n", mermaidNode(aliases[child], node))
		}
		b.WriteString("  end\n")
	}

	for _, edge := range graph.Edges {
		source, okSource := aliases[edge.Source]
		target, okTarget := aliases[edge.Target]
		if !okSource || !okTarget {
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s\n", source, mermaidArrow(edge), target)
	}

	return b.String(), nil
}

func mermaidNode(alias string, node models.Node) string {
	label := mermaidText(node.Label)
	switch node.Shape {
	case models.ShapeRectangle:
		return fmt.Sprintf("%s[\"%s\"]", alias, label)
	case models.ShapeHexagon:
		return fmt.Sprintf("%s{{\"%s\"}}", alias, label)
	case models.ShapeRhombus:
		return fmt.Sprintf("%s{\"%s\"}", alias, label)
	default:
		return fmt.Sprintf("%s([\"%s\"])", alias, label)
	}
}

func mermaidArrow(edge models.Edge) string {
	dashed := edge.Style == models.EdgeDashed || edge.Style == models.EdgeDotted
	switch {
	case edge.Label == "" && dashed:
		return "-.->"
	case edge.Label == "":
		return "-->"
	case dashed:
		return fmt.Sprintf("-. \"%s\" .->", mermaidText(edge.Label))
	default:
		return fmt.Sprintf("-- \"%s\" -->", mermaidText(edge.Label))
	}
}

func mermaidText(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
