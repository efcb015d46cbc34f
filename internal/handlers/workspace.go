package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/routescope/core/internal/events"
	"github.com/routescope/core/internal/interaction"
	"github.com/routescope/core/internal/log"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/workspace"
)

type WorkspaceTopologyResponse struct {
	Graph         *models.Graph            `json:"graph"`
	Notifications []events.FileParseFailed `json:"notifications"`
	SelectedFile  string                   `json:"selectedFile,omitempty"`
}

// WorkspaceHandler exposes a server-side editing session.
type WorkspaceHandler struct {
	session *workspace.Session
	logger  *zap.Logger
}

func NewWorkspaceHandler(session *workspace.Session, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{session: session, logger: log.OrNop(logger)}
}

// Files handles GET, PUT and DELETE /workspace/files.
func (h *WorkspaceHandler) Files(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, h.logger, http.StatusOK, h.session.Files())

	case http.MethodPut:
		var file models.IntegrationFile
		if err := decodeBody(w, r, &file); err != nil {
			http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if file.Name == "" {
			http.Error(w, "File name is required", http.StatusBadRequest)
			return
		}
		h.session.PutFile(file.Name, file.Code)
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "File name is required", http.StatusBadRequest)
			return
		}
		if err := h.session.RemoveFile(name); err != nil {
			writeActionError(w, r, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Settings handles GET and PUT /workspace/settings.
func (h *WorkspaceHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, h.logger, http.StatusOK, h.session.Settings())

	case http.MethodPut:
		var settings workspace.Settings
		if err := decodeBody(w, r, &settings); err != nil {
			http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}
		h.session.SetSettings(settings)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Topology handles GET /workspace/topology.
func (h *WorkspaceHandler) Topology(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	graph := h.session.Topology(r.Context())
	notifications := h.session.Notifications()

	writeJSON(w, r, h.logger, http.StatusOK, WorkspaceTopologyResponse{
		Graph:         graph,
		Notifications: notifications,
		SelectedFile:  h.session.SelectedFile(),
	})
}

// Actions handles POST /workspace/actions.
func (h *WorkspaceHandler) Actions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req interaction.Request
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.NodeID == "" || req.Action == "" {
		writeActionError(w, r, h.logger, interaction.NewError(interaction.CodeInvalidArgument, "nodeId and action are required"))
		return
	}

	if err := h.session.Dispatch(r.Context(), req); err != nil {
		writeActionError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Action applied",
		zap.String("node", req.NodeID),
		zap.String("action", string(req.Action)))
	w.WriteHeader(http.StatusNoContent)
}
