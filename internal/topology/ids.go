package topology

import "github.com/routescope/core/internal/models"

// Built-in group ids live under "$" so route group labels, which are used as
// ids verbatim, do not clash with them in practice. Node ids all carry a
// "<kind>-" prefix.
const (
	consumersGroupID = "$consumers"
	producersGroupID = "$producers"
	openAPIGroupID   = "$openapi"
)

func routeNodeID(routeID string) string {
	return "route-" + routeID
}

func routeConfigurationNodeID(id string) string {
	return "configuration-" + id
}

func restNodeID(restID string) string {
	return "rest-" + restID
}

func incomingNodeID(routeID string) string {
	return "incoming-" + routeID
}

func outgoingNodeID(routeID, stepID string) string {
	return "outgoing-" + routeID + "-" + stepID
}

func uniqueURINodeID(uri string) string {
	return "unique-" + uri
}

func descriptorNodeID(f models.DescriptorFormat) string {
	return "descriptor-" + string(f)
}
