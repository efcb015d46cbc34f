// Package interaction resolves user actions on topology nodes into edits on
// the underlying route files.
package interaction

import (
	"fmt"

	"github.com/routescope/core/internal/models"
)

type Action string

const (
	ActionSelectFile    Action = "select-file"
	ActionSetDisabled   Action = "set-disabled"
	ActionDeleteRoute   Action = "delete-route"
	ActionSetRouteGroup Action = "set-route-group"
)

// Request is an action invoked on a rendered node.
type Request struct {
	NodeID    string `json:"nodeId"`
	Action    Action `json:"action"`
	ElementID string `json:"elementId,omitempty"`
	Disabled  bool   `json:"disabled"`
	Group     string `json:"group,omitempty"`
}

// Actions is implemented by whatever owns the route files.
type Actions interface {
	SelectFile(file string) error
	SetDisabled(file, routeID, elementID string, disabled bool) error
	DeleteRoute(file, routeID string) error
	SetRouteGroup(file, routeID, group string) error
}

// Supported lists the actions a node accepts.
func Supported(node models.Node) []Action {
	var actions []Action
	if node.FileName != "" {
		actions = append(actions, ActionSelectFile)
	}
	switch node.Data.(type) {
	case models.EndpointData:
		actions = append(actions, ActionSetDisabled)
	case models.RouteData:
		actions = append(actions, ActionDeleteRoute, ActionSetRouteGroup)
	}
	return actions
}

// Dispatch looks the node up in graph and forwards req to actions with the
// file and element ids taken from the node.
func Dispatch(graph *models.Graph, req Request, actions Actions) error {
	if graph == nil {
		return newError(CodeNodeNotFound, "no topology has been built")
	}

	node, ok := graph.FindNode(req.NodeID)
	if !ok {
		return newError(CodeNodeNotFound, fmt.Sprintf("node %q not found", req.NodeID))
	}

	if !supports(node, req.Action) {
		return newError(CodeActionNotSupported, fmt.Sprintf("action %q is not supported on %s node %q", req.Action, node.Type, node.ID))
	}

	switch req.Action {
	case ActionSelectFile:
		return actions.SelectFile(node.FileName)

	case ActionSetDisabled:
		data := node.Data.(models.EndpointData)
		elementID := req.ElementID
		if elementID == "" {
			elementID = data.StepID
		}
		return actions.SetDisabled(node.FileName, data.RouteID, elementID, req.Disabled)

	case ActionDeleteRoute:
		data := node.Data.(models.RouteData)
		return actions.DeleteRoute(node.FileName, data.RouteID)

	case ActionSetRouteGroup:
		data := node.Data.(models.RouteData)
		return actions.SetRouteGroup(node.FileName, data.RouteID, req.Group)
	}

	return newError(CodeActionNotSupported, fmt.Sprintf("unknown action %q", req.Action))
}

func supports(node models.Node, action Action) bool {
	for _, a := range Supported(node) {
		if a == action {
			return true
		}
	}
	return false
}
