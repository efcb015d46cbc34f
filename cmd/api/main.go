// Package main starts the routescope HTTP server. It builds topology models
// for posted route files and hosts a server-side editing workspace.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/routescope/core/cmd/api/middleware"
	"github.com/routescope/core/internal/config"
	"github.com/routescope/core/internal/events"
	"github.com/routescope/core/internal/handlers"
	"github.com/routescope/core/internal/log"
	"github.com/routescope/core/internal/topology"
	"github.com/routescope/core/internal/workspace"
)

func main() {
	configPath := flag.String("config", "", "Path to routescope.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.New(log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	publisher, err := events.Connect(cfg.Events.NatsURL)
	if err != nil {
		logger.Fatal("Failed to connect event publisher", zap.Error(err))
	}
	defer publisher.Close()

	builder := newBuilder(cfg, publisher, logger)
	session := workspace.NewSession(builder, workspace.Settings{ShowGroups: cfg.Topology.ShowGroups}, logger)

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           newRouter(cfg, builder, session, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newBuilder(cfg *config.Config, publisher events.Publisher, logger *zap.Logger) *topology.Builder {
	return topology.NewBuilder(
		topology.WithInternalComponents(cfg.Topology.InternalComponents),
		topology.WithFileSuffixes(cfg.Topology.FileSuffixes),
		topology.WithPublisher(publisher),
		topology.WithTopic(cfg.Events.Topic),
		topology.WithLogger(logger),
	)
}

func newRouter(cfg *config.Config, builder *topology.Builder, session *workspace.Session, logger *zap.Logger) http.Handler {
	topologyHandler := handlers.NewTopologyHandler(builder, logger)
	workspaceHandler := handlers.NewWorkspaceHandler(session, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.NewHealthHandler(session))
	mux.HandleFunc("/topology", topologyHandler.Build)
	mux.HandleFunc("/topology/export", topologyHandler.Export)
	mux.HandleFunc("/workspace/files", workspaceHandler.Files)
	mux.HandleFunc("/workspace/settings", workspaceHandler.Settings)
	mux.HandleFunc("/workspace/topology", workspaceHandler.Topology)
	mux.HandleFunc("/workspace/actions", workspaceHandler.Actions)

	return log.AccessLog(logger, middleware.Cors(cfg.Cors.AllowedOrigin)(mux))
}
