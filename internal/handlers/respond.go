package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/routescope/core/internal/interaction"
)

// maxBodyBytes bounds request bodies; route files are small text documents.
const maxBodyBytes = 8 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return decoder.Decode(v)
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		logger.Error("Error encoding response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// writeActionError maps interaction errors to HTTP statuses with a JSON body.
func writeActionError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var ae *interaction.ActionError
	if !errors.As(err, &ae) {
		logger.Error("Action failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	status := http.StatusBadRequest
	switch ae.Code {
	case interaction.CodeNodeNotFound, interaction.CodeFileNotFound, interaction.CodeElementNotFound:
		status = http.StatusNotFound
	case interaction.CodeActionNotSupported:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, logger, status, ae)
}
