package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routescope/core/internal/workspace"
)

func getHealth(t *testing.T) HealthResponse {
	t.Helper()
	w := httptest.NewRecorder()
	NewHealthHandler(nil)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestHealthHandler(t *testing.T) {
	t.Run("reports a healthy service", func(t *testing.T) {
		response := getHealth(t)

		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "routescope-api", response.Service)
		assert.NotEmpty(t, response.Uptime)
	})

	t.Run("timestamp is recent RFC3339", func(t *testing.T) {
		before := time.Now().UTC().Add(-time.Second)
		response := getHealth(t)
		after := time.Now().UTC().Add(time.Second)

		timestamp, err := time.Parse(time.RFC3339, response.Timestamp)
		require.NoError(t, err)
		assert.True(t, timestamp.After(before))
		assert.True(t, timestamp.Before(after))
	})

	t.Run("includes runtime details", func(t *testing.T) {
		response := getHealth(t)

		assert.Equal(t, runtime.Version(), response.Details["go_version"])
		assert.Equal(t, strconv.Itoa(runtime.NumCPU()), response.Details["num_cpu"])
	})

	t.Run("counts workspace files", func(t *testing.T) {
		session := workspace.NewSession(nil, workspace.Settings{}, nil)
		session.PutFile("a.camel.yaml", producerRoute)

		w := httptest.NewRecorder()
		NewHealthHandler(session)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "1", response.Details["workspace_files"])
	})

	t.Run("uptime increases over time", func(t *testing.T) {
		first := getHealth(t)
		time.Sleep(10 * time.Millisecond)
		second := getHealth(t)

		assert.NotEqual(t, first.Uptime, second.Uptime)
	})

	t.Run("only GET is allowed", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead} {
			w := httptest.NewRecorder()
			NewHealthHandler(nil)(w, httptest.NewRequest(method, "/health", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		}
	})

	t.Run("handles concurrent requests", func(t *testing.T) {
		results := make(chan int, 10)
		for range 10 {
			go func() {
				w := httptest.NewRecorder()
				NewHealthHandler(nil)(w, httptest.NewRequest(http.MethodGet, "/health", nil))
				results <- w.Code
			}()
		}
		for range 10 {
			assert.Equal(t, http.StatusOK, <-results)
		}
	})
}

func TestHealthResponse_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(HealthResponse{Status: "healthy", Service: "routescope-api"})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "uptime")
	assert.NotContains(t, string(data), "details")
}
