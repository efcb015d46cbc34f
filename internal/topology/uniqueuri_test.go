package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routescope/core/internal/models"
)

func testEndpoint(routeID, group string, direction models.Direction, uri string, internal bool) endpoint {
	return endpoint{
		direction: direction,
		route: &routeEntry{
			route:  models.Route{ID: routeID, Group: group},
			nodeID: routeNodeID(routeID),
		},
		stepID:   "to-1",
		uri:      models.ParseEndpointURI(uri, nil),
		internal: internal,
	}
}

func TestFoldUniqueURIs(t *testing.T) {
	t.Run("merges endpoints sharing a uri", func(t *testing.T) {
		idx := foldUniqueURIs(
			[]endpoint{testEndpoint("c", "", models.DirectionIncoming, "jms:queue", false)},
			[]endpoint{
				testEndpoint("a", "", models.DirectionOutgoing, "jms:queue", false),
				testEndpoint("b", "", models.DirectionOutgoing, "jms:queue?persistent=true", false),
				testEndpoint("a", "", models.DirectionOutgoing, "jms:queue", false),
			},
		)

		require.Equal(t, 1, idx.len())
		entry := idx.entries["jms:queue"]
		assert.Equal(t, []string{"c"}, entry.incoming.values())
		assert.Equal(t, []string{"a", "b"}, entry.outgoing.values())
	})

	t.Run("ignores internal endpoints", func(t *testing.T) {
		idx := foldUniqueURIs(
			[]endpoint{testEndpoint("c", "", models.DirectionIncoming, "direct:x", true)},
			[]endpoint{testEndpoint("a", "", models.DirectionOutgoing, "direct:x", true)},
		)

		assert.Equal(t, 0, idx.len())
		assert.Empty(t, idx.nodes(nil))
		assert.Empty(t, idx.edges())
	})

	t.Run("keeps first-seen order", func(t *testing.T) {
		idx := foldUniqueURIs(
			[]endpoint{testEndpoint("c", "", models.DirectionIncoming, "kafka:b", false)},
			[]endpoint{testEndpoint("a", "", models.DirectionOutgoing, "kafka:a", false)},
		)

		nodes := idx.nodes(nil)
		require.Len(t, nodes, 2)
		assert.Equal(t, "unique-kafka:b", nodes[0].ID)
		assert.Equal(t, "unique-kafka:a", nodes[1].ID)
	})

	t.Run("unions route groups across both directions", func(t *testing.T) {
		idx := foldUniqueURIs(
			[]endpoint{testEndpoint("c", "shipping", models.DirectionIncoming, "kafka:t", false)},
			[]endpoint{
				testEndpoint("a", "billing", models.DirectionOutgoing, "kafka:t", false),
				testEndpoint("b", "billing", models.DirectionOutgoing, "kafka:t", false),
			},
		)

		nodes := idx.nodes(map[string]string{"a": "billing", "b": "billing", "c": "shipping"})
		require.Len(t, nodes, 1)
		data := nodes[0].Data.(models.UniqueURIData)
		assert.Equal(t, []string{"shipping", "billing"}, data.Groups)
	})

	t.Run("edges point into consumers and out of producers", func(t *testing.T) {
		idx := foldUniqueURIs(
			[]endpoint{testEndpoint("c", "", models.DirectionIncoming, "kafka:t", false)},
			[]endpoint{testEndpoint("a", "", models.DirectionOutgoing, "kafka:t", false)},
		)

		edges := idx.edges()
		require.Len(t, edges, 2)
		assert.Equal(t, "unique-kafka:t", edges[0].Source)
		assert.Equal(t, "route-c", edges[0].Target)
		assert.Equal(t, "route-a", edges[1].Source)
		assert.Equal(t, "unique-kafka:t", edges[1].Target)
	})
}

func TestOrderedSet(t *testing.T) {
	var s orderedSet
	s.add("b")
	s.add("")
	s.add("a")
	s.add("b")

	assert.Equal(t, []string{"b", "a"}, s.values())

	var empty orderedSet
	assert.Empty(t, empty.values())
}
