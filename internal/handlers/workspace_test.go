package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routescope/core/internal/interaction"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/topology"
	"github.com/routescope/core/internal/workspace"
)

func newWorkspaceHandler() *WorkspaceHandler {
	builder := topology.NewBuilder(topology.WithRenderKey(func() string { return "key" }))
	return NewWorkspaceHandler(workspace.NewSession(builder, workspace.Settings{}, nil), nil)
}

func putFile(t *testing.T, h *WorkspaceHandler, name, code string) {
	t.Helper()
	body, err := json.Marshal(models.IntegrationFile{Name: name, Code: code})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Files(w, httptest.NewRequest(http.MethodPut, "/workspace/files", strings.NewReader(string(body))))
	require.Equal(t, http.StatusNoContent, w.Code)
}

func getTopology(t *testing.T, h *WorkspaceHandler) WorkspaceTopologyResponse {
	t.Helper()
	w := httptest.NewRecorder()
	h.Topology(w, httptest.NewRequest(http.MethodGet, "/workspace/topology", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp WorkspaceTopologyResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func postAction(h *WorkspaceHandler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Actions(w, httptest.NewRequest(http.MethodPost, "/workspace/actions", strings.NewReader(body)))
	return w
}

func TestWorkspaceHandler_Files(t *testing.T) {
	h := newWorkspaceHandler()

	t.Run("put then list", func(t *testing.T) {
		putFile(t, h, "producer.camel.yaml", producerRoute)

		w := httptest.NewRecorder()
		h.Files(w, httptest.NewRequest(http.MethodGet, "/workspace/files", nil))

		var files []models.IntegrationFile
		require.NoError(t, json.NewDecoder(w.Body).Decode(&files))
		require.Len(t, files, 1)
		assert.Equal(t, "producer.camel.yaml", files[0].Name)
	})

	t.Run("put requires a name", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Files(w, httptest.NewRequest(http.MethodPut, "/workspace/files", strings.NewReader(`{"code": "x"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete removes the file", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Files(w, httptest.NewRequest(http.MethodDelete, "/workspace/files?name=producer.camel.yaml", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, getTopology(t, h).Graph.Nodes)
	})

	t.Run("delete of an unknown file is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Files(w, httptest.NewRequest(http.MethodDelete, "/workspace/files?name=nope.camel.yaml", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var ae interaction.ActionError
		require.NoError(t, json.NewDecoder(w.Body).Decode(&ae))
		assert.Equal(t, interaction.CodeFileNotFound, ae.Code)
	})

	t.Run("delete requires a name", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Files(w, httptest.NewRequest(http.MethodDelete, "/workspace/files", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("other methods are not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Files(w, httptest.NewRequest(http.MethodPost, "/workspace/files", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestWorkspaceHandler_Settings(t *testing.T) {
	h := newWorkspaceHandler()
	putFile(t, h, "producer.camel.yaml", producerRoute)

	_, ok := getTopology(t, h).Graph.FindNode("unique-kafka:orders")
	require.True(t, ok)

	w := httptest.NewRecorder()
	h.Settings(w, httptest.NewRequest(http.MethodPut, "/workspace/settings", strings.NewReader(`{"showGroups": true}`)))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.Settings(w, httptest.NewRequest(http.MethodGet, "/workspace/settings", nil))
	assert.JSONEq(t, `{"showGroups": true, "openApiJson": "", "asyncApiJson": ""}`, w.Body.String())

	graph := getTopology(t, h).Graph
	_, ok = graph.FindNode("outgoing-producer-to-1")
	assert.True(t, ok)
	_, ok = graph.FindNode("unique-kafka:orders")
	assert.False(t, ok)
}

func TestWorkspaceHandler_Topology(t *testing.T) {
	h := newWorkspaceHandler()
	putFile(t, h, "broken.camel.yaml", "nope")
	putFile(t, h, "producer.camel.yaml", producerRoute)

	resp := getTopology(t, h)

	_, ok := resp.Graph.FindNode("route-producer")
	assert.True(t, ok)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "broken.camel.yaml", resp.Notifications[0].FileName)

	w := httptest.NewRecorder()
	h.Topology(w, httptest.NewRequest(http.MethodPost, "/workspace/topology", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestWorkspaceHandler_Actions(t *testing.T) {
	t.Run("select file is reflected in the topology response", func(t *testing.T) {
		h := newWorkspaceHandler()
		putFile(t, h, "producer.camel.yaml", producerRoute)

		w := postAction(h, `{"nodeId": "route-producer", "action": "select-file"}`)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "producer.camel.yaml", getTopology(t, h).SelectedFile)
	})

	t.Run("delete route removes it from the next topology", func(t *testing.T) {
		h := newWorkspaceHandler()
		putFile(t, h, "consumer.camel.yaml", consumerRoute)

		w := postAction(h, `{"nodeId": "route-store", "action": "delete-route"}`)

		require.Equal(t, http.StatusNoContent, w.Code)
		graph := getTopology(t, h).Graph
		_, ok := graph.FindNode("route-store")
		assert.False(t, ok)
		_, ok = graph.FindNode("route-consumer")
		assert.True(t, ok)
	})

	t.Run("set route group", func(t *testing.T) {
		h := newWorkspaceHandler()
		putFile(t, h, "consumer.camel.yaml", consumerRoute)

		w := postAction(h, `{"nodeId": "route-consumer", "action": "set-route-group", "group": "orders"}`)

		require.Equal(t, http.StatusNoContent, w.Code)
		group, ok := getTopology(t, h).Graph.FindNode("orders")
		require.True(t, ok)
		assert.Equal(t, []string{"route-consumer"}, group.Children)
	})

	t.Run("error codes map to statuses", func(t *testing.T) {
		h := newWorkspaceHandler()
		putFile(t, h, "consumer.camel.yaml", consumerRoute)

		tests := []struct {
			body   string
			status int
			code   interaction.ErrorCode
		}{
			{`{"nodeId": "route-missing", "action": "select-file"}`, http.StatusNotFound, interaction.CodeNodeNotFound},
			{`{"nodeId": "route-consumer", "action": "set-disabled"}`, http.StatusUnprocessableEntity, interaction.CodeActionNotSupported},
			{`{"nodeId": "", "action": "select-file"}`, http.StatusBadRequest, interaction.CodeInvalidArgument},
		}

		for _, tt := range tests {
			w := postAction(h, tt.body)

			assert.Equal(t, tt.status, w.Code, tt.body)
			var ae interaction.ActionError
			require.NoError(t, json.NewDecoder(w.Body).Decode(&ae))
			assert.Equal(t, tt.code, ae.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		w := postAction(newWorkspaceHandler(), `{`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
