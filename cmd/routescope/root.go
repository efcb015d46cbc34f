package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/routescope/core/internal/config"
	"github.com/routescope/core/internal/events"
	"github.com/routescope/core/internal/log"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/topology"
)

// Version is overridden at link time.
var Version = "dev"

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "routescope",
		Short: "routescope - integration route topology",
		Long: `routescope reads Camel YAML route files and builds the topology model
that shows how routes, REST services, API descriptors and external
endpoints connect to each other.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("routescope version {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to routescope.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log parse failures to stderr")

	cmd.AddCommand(newBuildCmd(opts))
	cmd.AddCommand(newSummaryCmd(opts))
	return cmd
}

// session is what a subcommand needs to run one build.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	builder  *topology.Builder
	recorder *events.Recorder
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := zap.NewNop()
	if o.verbose {
		logger, err = log.NewWithWriter(log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("initialize logger: %w", err)
		}
	}

	recorder := events.NewRecorder(nil)
	builder := topology.NewBuilder(
		topology.WithInternalComponents(cfg.Topology.InternalComponents),
		topology.WithFileSuffixes(cfg.Topology.FileSuffixes),
		topology.WithPublisher(recorder),
		topology.WithTopic(cfg.Events.Topic),
		topology.WithLogger(logger),
	)
	return &session{cfg: cfg, logger: logger, builder: builder, recorder: recorder}, nil
}

// readFiles loads route files from disk. Directories are expanded one level.
func readFiles(paths []string) ([]models.IntegrationFile, error) {
	var files []models.IntegrationFile
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			f, err := readFile(p)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			f, err := readFile(filepath.Join(p, e.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func readFile(path string) (models.IntegrationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.IntegrationFile{}, err
	}
	return models.IntegrationFile{Name: filepath.Base(path), Code: string(data)}, nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
