package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routescope/core/internal/export"
	"github.com/routescope/core/internal/topology"
)

const formatJSON = "json"

type buildOptions struct {
	groups   bool
	openAPI  string
	asyncAPI string
	format   string
	pretty   bool
}

func newBuildCmd(root *rootOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <file|dir>...",
		Short: "Build the topology model of route files",
		Long: `Build the topology model of a set of route files and print it.

Examples:
  routescope build orders.camel.yaml billing.camel.yaml
  routescope build routes/ --groups --format=mermaid
  routescope build routes/ --openapi=openapi.json --pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, root, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.groups, "groups", false, "Cluster endpoints into consumer and producer groups")
	cmd.Flags().StringVar(&opts.openAPI, "openapi", "", "OpenAPI document to include")
	cmd.Flags().StringVar(&opts.asyncAPI, "asyncapi", "", "AsyncAPI document to include")
	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "Output format (json, dot, mermaid)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	return cmd
}

func runBuild(cmd *cobra.Command, root *rootOptions, opts *buildOptions, args []string) error {
	var generator export.Generator
	format := strings.ToLower(opts.format)
	if format != formatJSON {
		g, err := export.ForFormat(format)
		if err != nil {
			return err
		}
		generator = g
	}

	s, err := root.open(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	files, err := readFiles(args)
	if err != nil {
		return err
	}
	openAPI, err := readOptional(opts.openAPI)
	if err != nil {
		return err
	}
	asyncAPI, err := readOptional(opts.asyncAPI)
	if err != nil {
		return err
	}

	showGroups := s.cfg.Topology.ShowGroups
	if cmd.Flags().Changed("groups") {
		showGroups = opts.groups
	}

	graph := s.builder.Build(cmd.Context(), topology.Input{
		Files:        files,
		ShowGroups:   showGroups,
		OpenAPIJSON:  openAPI,
		AsyncAPIJSON: asyncAPI,
	})

	out := cmd.OutOrStdout()
	if generator != nil {
		text, err := generator.Generate("topology", graph)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, text)
		return err
	}

	enc := json.NewEncoder(out)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(graph)
}
