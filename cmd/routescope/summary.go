package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/routescope/core/internal/events"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/topology"
)

func newSummaryCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file|dir>...",
		Short: "Print node and edge counts for route files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			files, err := readFiles(args)
			if err != nil {
				return err
			}
			graph := s.builder.Build(cmd.Context(), topology.Input{Files: files, ShowGroups: s.cfg.Topology.ShowGroups})
			printSummary(cmd.OutOrStdout(), len(files), graph, s.recorder.ParseFailures())
			return nil
		},
	}
}

var summaryRows = []struct {
	label string
	types []models.NodeType
}{
	{"Routes", []models.NodeType{models.NodeRoute}},
	{"Route configurations", []models.NodeType{models.NodeRouteConfiguration}},
	{"REST services", []models.NodeType{models.NodeRest}},
	{"Endpoints", []models.NodeType{models.NodeIncoming, models.NodeOutgoing}},
	{"Unique URIs", []models.NodeType{models.NodeUniqueURI}},
}

func printSummary(w io.Writer, fileCount int, graph *models.Graph, failures []events.FileParseFailed) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	_, _ = bold.Fprintf(w, "Topology of %d file(s)\n", fileCount)
	for _, row := range summaryRows {
		n := 0
		for _, t := range row.types {
			n += graph.Stats.NodesByType[string(t)]
		}
		fmt.Fprintf(w, "  %-22s ", row.label)
		_, _ = green.Fprintf(w, "%d\n", n)
	}
	fmt.Fprintf(w, "  %-22s ", "Edges")
	_, _ = green.Fprintf(w, "%d\n", graph.Stats.TotalEdges)
	fmt.Fprintf(w, "  %-22s ", "Groups")
	_, _ = green.Fprintf(w, "%d\n", graph.Stats.TotalGroups)

	if len(failures) == 0 {
		return
	}
	_, _ = red.Fprintf(w, "%d file(s) failed to parse\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(w, "  %s: %s\n", f.FileName, f.Message)
	}
}
