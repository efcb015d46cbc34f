// Package export renders a topology model as Graphviz DOT or Mermaid text.
package export

import (
	"fmt"
	"strings"

	"github.com/routescope/core/internal/models"
)

const (
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
)

// Generator renders a whole model under a diagram name.
type Generator interface {
	Generate(name string, graph *models.Graph) (string, error)
}

// ForFormat returns the generator for a format name.
func ForFormat(format string) (Generator, error) {
	switch strings.ToLower(format) {
	case FormatDOT:
		return &DotGenerator{}, nil
	case FormatMermaid:
		return &MermaidGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// ContentType is the media type served for a format.
func ContentType(format string) string {
	if strings.ToLower(format) == FormatDOT {
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
