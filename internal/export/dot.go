package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/routescope/core/internal/models"
)

var dotShapes = map[models.Shape]string{
	models.ShapeEllipse:   "ellipse",
	models.ShapeRectangle: "box",
	models.ShapeHexagon:   "hexagon",
	models.ShapeRhombus:   "diamond",
}

type DotGenerator struct{}

func (g *DotGenerator) Generate(name string, graph *models.Graph) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("nil graph")
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "digraph %s {\n", dotQuote(name))
	b.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&b, "  label=%s;\n", dotQuote(name))

	for i, group := range graph.Groups {
		fmt.Fprintf(&b, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&b, "    label=%s;\n", dotQuote(group.Label))
		b.WriteString("    style=rounded;\n")
		for _, child := range group.Children {
			fmt.Fprintf(&b, "    %s;\n", dotQuote(child))
		}
		b.WriteString("  }\n")
	}

	for _, node := range graph.Nodes {
		shape, ok := dotShapes[node.Shape]
		if !ok {
			shape = "ellipse"
		}
		fmt.Fprintf(&b, "  %s [label=%s, shape=%s];\n", dotQuote(node.ID), dotQuote(node.Label), shape)
	}

	for _, edge := range graph.Edges {
		attrs := []string{}
		if edge.Label != "" {
			attrs = append(attrs, "label="+dotQuote(edge.Label))
		}
		if edge.Style == models.EdgeDashed || edge.Style == models.EdgeDotted {
			attrs = append(attrs, "style="+string(edge.Style))
		}
		fmt.Fprintf(&b, "  %s -> %s", dotQuote(edge.Source), dotQuote(edge.Target))
		if len(attrs) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(attrs, ", "))
		}
		b.WriteString(";\n")
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
