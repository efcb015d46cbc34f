// Package models defines the core data structures shared by the parser, the
// topology builder and the HTTP layer.
package models

import (
	"encoding/json"
	"fmt"
)

type NodeType string

const (
	NodeRoute              NodeType = "route"
	NodeRouteConfiguration NodeType = "route-configuration"
	NodeRest               NodeType = "rest"
	NodeIncoming           NodeType = "incoming"
	NodeOutgoing           NodeType = "outgoing"
	NodeUniqueURI          NodeType = "unique-uri"
	NodeDescriptor         NodeType = "descriptor"
	NodeGroup              NodeType = "group"
)

type Shape string

const (
	ShapeEllipse   Shape = "ellipse"
	ShapeRectangle Shape = "rect"
	ShapeHexagon   Shape = "hexagon"
	ShapeRhombus   Shape = "rhombus"
	ShapeGroup     Shape = "group"
)

// Route nodes are drawn 1.5 times the diameter of endpoint nodes.
const (
	EndpointDiameter = 50
	RouteDiameter    = EndpointDiameter * 3 / 2
)

type EdgeType string

const (
	EdgeIncoming EdgeType = "incoming"
	EdgeOutgoing EdgeType = "outgoing"
	EdgeInternal EdgeType = "internal"
	EdgeRest     EdgeType = "rest"
	EdgeOpenAPI  EdgeType = "openapi"
	EdgeCrossURI EdgeType = "cross-uri"
)

type EdgeStyle string

const (
	EdgeSolid  EdgeStyle = "solid"
	EdgeDashed EdgeStyle = "dashed"
	EdgeDotted EdgeStyle = "dotted"
)

type Graph struct {
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	Groups    []Node `json:"groups"`
	Stats     *Stats `json:"stats,omitempty"`
	RenderKey string `json:"render_key,omitempty"`
}

type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Label    string   `json:"label"`
	Shape    Shape    `json:"shape"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	FileName string   `json:"file_name,omitempty"`
	Children []string `json:"children,omitempty"`
	Data     NodeData `json:"data,omitempty"`
}

type Edge struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Type     EdgeType  `json:"type"`
	Style    EdgeStyle `json:"style"`
	Animated bool      `json:"animated,omitempty"`
	Label    string    `json:"label,omitempty"`
}

type Stats struct {
	TotalNodes  int            `json:"total_nodes"`
	TotalEdges  int            `json:"total_edges"`
	TotalGroups int            `json:"total_groups"`
	NodesByType map[string]int `json:"nodes_by_type,omitempty"`
	EdgesByType map[string]int `json:"edges_by_type,omitempty"`
}

// FindNode looks a node or group up by id.
func (g *Graph) FindNode(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	for _, n := range g.Groups {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeData is the kind-specific payload of a node. The concrete type always
// matches the node's Type.
type NodeData interface {
	NodeType() NodeType
}

type RouteData struct {
	RouteID              string `json:"route_id"`
	Description          string `json:"description,omitempty"`
	TemplateID           string `json:"template_id,omitempty"`
	Group                string `json:"group,omitempty"`
	AutoStartup          bool   `json:"auto_startup"`
	RouteConfigurationID string `json:"route_configuration_id,omitempty"`
}

func (RouteData) NodeType() NodeType { return NodeRoute }

type RouteConfigurationData struct {
	ConfigurationID string `json:"configuration_id"`
	Description     string `json:"description,omitempty"`
}

func (RouteConfigurationData) NodeType() NodeType { return NodeRouteConfiguration }

type RestData struct {
	RestID  string   `json:"rest_id"`
	Path    string   `json:"path,omitempty"`
	URIs    []string `json:"uris,omitempty"`
	OpenAPI string   `json:"open_api,omitempty"`
}

func (RestData) NodeType() NodeType { return NodeRest }

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

type EndpointData struct {
	Direction     Direction `json:"direction"`
	RouteID       string    `json:"route_id"`
	StepID        string    `json:"step_id"`
	StepName      string    `json:"step_name"`
	URI           string    `json:"uri"`
	UniqueURI     string    `json:"unique_uri"`
	ConnectorType string    `json:"connector_type"`
	Internal      bool      `json:"internal"`
}

func (d EndpointData) NodeType() NodeType {
	if d.Direction == DirectionIncoming {
		return NodeIncoming
	}
	return NodeOutgoing
}

type UniqueURIData struct {
	URI              string   `json:"uri"`
	ConnectorType    string   `json:"connector_type"`
	IncomingRouteIDs []string `json:"incoming_route_ids"`
	OutgoingRouteIDs []string `json:"outgoing_route_ids"`
	Groups           []string `json:"groups,omitempty"`
}

func (UniqueURIData) NodeType() NodeType { return NodeUniqueURI }

type DescriptorData struct {
	Format     DescriptorFormat `json:"format"`
	Title      string           `json:"title,omitempty"`
	Version    string           `json:"version,omitempty"`
	Operations int              `json:"operations"`
}

func (DescriptorData) NodeType() NodeType { return NodeDescriptor }

type GroupKind string

const (
	GroupConsumers GroupKind = "consumers"
	GroupProducers GroupKind = "producers"
	GroupOpenAPI   GroupKind = "openapi"
	GroupRoutes    GroupKind = "routes"
)

type GroupData struct {
	Kind GroupKind `json:"kind"`
}

func (GroupData) NodeType() NodeType { return NodeGroup }

// UnmarshalJSON decodes the data payload into the variant named by the node type.
func (n *Node) UnmarshalJSON(b []byte) error {
	type plain Node
	var aux struct {
		plain
		Data json.RawMessage `json:"data,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*n = Node(aux.plain)
	n.Data = nil

	if len(aux.Data) == 0 || string(aux.Data) == "null" {
		return nil
	}

	data, err := decodeNodeData(n.Type, aux.Data)
	if err != nil {
		return fmt.Errorf("node %q: %w", n.ID, err)
	}
	n.Data = data
	return nil
}

func decodeNodeData(t NodeType, raw json.RawMessage) (NodeData, error) {
	switch t {
	case NodeRoute:
		var d RouteData
		err := json.Unmarshal(raw, &d)
		return d, err
	case NodeRouteConfiguration:
		var d RouteConfigurationData
		err := json.Unmarshal(raw, &d)
		return d, err
	case NodeRest:
		var d RestData
		err := json.Unmarshal(raw, &d)
		return d, err
	case NodeIncoming, NodeOutgoing:
		var d EndpointData
		err := json.Unmarshal(raw, &d)
		return d, err
	case NodeUniqueURI:
		var d UniqueURIData
		err := json.Unmarshal(raw, &d)
		return d, err
	case NodeDescriptor:
		var d DescriptorData
		err := json.Unmarshal(raw, &d)
		return d, err
	case NodeGroup:
		var d GroupData
		err := json.Unmarshal(raw, &d)
		return d, err
	default:
		return nil, fmt.Errorf("unknown node type %q", t)
	}
}
