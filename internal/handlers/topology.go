package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/routescope/core/internal/events"
	"github.com/routescope/core/internal/export"
	"github.com/routescope/core/internal/log"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/topology"
)

type TopologyRequest struct {
	Files        []models.IntegrationFile `json:"files"`
	ShowGroups   bool                     `json:"showGroups"`
	OpenAPIJSON  string                   `json:"openApiJson,omitempty"`
	AsyncAPIJSON string                   `json:"asyncApiJson,omitempty"`
}

func (req TopologyRequest) input() topology.Input {
	return topology.Input{
		Files:        req.Files,
		ShowGroups:   req.ShowGroups,
		OpenAPIJSON:  req.OpenAPIJSON,
		AsyncAPIJSON: req.AsyncAPIJSON,
	}
}

type TopologyResponse struct {
	Graph         *models.Graph            `json:"graph"`
	Notifications []events.FileParseFailed `json:"notifications"`
}

// TopologyHandler builds models from file sets posted by the client. It keeps
// no state between requests.
type TopologyHandler struct {
	builder *topology.Builder
	logger  *zap.Logger
}

func NewTopologyHandler(builder *topology.Builder, logger *zap.Logger) *TopologyHandler {
	if builder == nil {
		builder = topology.NewBuilder()
	}
	return &TopologyHandler{builder: builder, logger: log.OrNop(logger)}
}

// Build handles POST /topology.
func (h *TopologyHandler) Build(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TopologyRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	graph, notifications := h.build(r, req)

	writeJSON(w, r, h.logger, http.StatusOK, TopologyResponse{
		Graph:         graph,
		Notifications: notifications,
	})
}

// Export handles POST /topology/export?format=dot|mermaid.
func (h *TopologyHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatDOT
	}
	generator, err := export.ForFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req TopologyRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	graph, _ := h.build(r, req)
	out, err := generator.Generate("topology", graph)
	if err != nil {
		h.logger.Error("Export failed", zap.String("format", format), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	if _, err := w.Write([]byte(out)); err != nil {
		h.logger.Error("Error writing export", zap.Error(err))
	}
}

// build runs the builder with a recorder so parse failures of this request
// can be returned next to the model.
func (h *TopologyHandler) build(r *http.Request, req TopologyRequest) (*models.Graph, []events.FileParseFailed) {
	recorder := events.NewRecorder(h.builder.Publisher())
	graph := h.builder.With(topology.WithPublisher(recorder)).Build(r.Context(), req.input())

	notifications := recorder.ParseFailures()
	if notifications == nil {
		notifications = []events.FileParseFailed{}
	}
	return graph, notifications
}
