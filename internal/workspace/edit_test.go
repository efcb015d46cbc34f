package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routescope/core/internal/interaction"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/parser"
)

const ordersFile = `- route:
    id: orders
    group: billing
    from:
      uri: kafka:orders
      steps:
        - to: direct:audit
        - kamelet: slack-sink
        - to:
            id: to-archive
            uri: kafka:archive
            disabled: true
- route:
    id: audit
    from:
      uri: direct:audit
      steps:
        - log: audited
`

const twinRoutesFile = `- route:
    id: a
    from:
      uri: timer:a
      steps:
        - to: kafka:one
- route:
    id: b
    from:
      uri: timer:b
      steps:
        - to: kafka:two
`

func reparse(t *testing.T, code []byte) *models.Integration {
	t.Helper()
	integration, err := parser.ParseIntegration("orders.camel.yaml", code)
	require.NoError(t, err)
	return integration
}

func TestDeleteRoute(t *testing.T) {
	t.Run("removes the route definition", func(t *testing.T) {
		out, err := deleteRoute("orders.camel.yaml", []byte(ordersFile), "orders")
		require.NoError(t, err)

		integration := reparse(t, out)
		require.Len(t, integration.Routes, 1)
		assert.Equal(t, "audit", integration.Routes[0].ID)
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := deleteRoute("orders.camel.yaml", []byte(ordersFile), "missing")

		assert.Equal(t, interaction.CodeElementNotFound, interaction.CodeOf(err))
	})

	t.Run("unparseable file", func(t *testing.T) {
		_, err := deleteRoute("orders.camel.yaml", []byte("nope"), "orders")

		assert.Equal(t, interaction.CodeInvalidArgument, interaction.CodeOf(err))
	})
}

func TestSetRouteGroup(t *testing.T) {
	t.Run("sets a new group", func(t *testing.T) {
		out, err := setRouteGroup("orders.camel.yaml", []byte(ordersFile), "audit", "compliance")
		require.NoError(t, err)

		assert.Equal(t, "compliance", reparse(t, out).Routes[1].Group)
	})

	t.Run("replaces an existing group", func(t *testing.T) {
		out, err := setRouteGroup("orders.camel.yaml", []byte(ordersFile), "orders", "sales")
		require.NoError(t, err)

		assert.Equal(t, "sales", reparse(t, out).Routes[0].Group)
	})

	t.Run("empty group clears it", func(t *testing.T) {
		out, err := setRouteGroup("orders.camel.yaml", []byte(ordersFile), "orders", "")
		require.NoError(t, err)

		assert.Empty(t, reparse(t, out).Routes[0].Group)
		assert.NotContains(t, string(out), "group:")
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := setRouteGroup("orders.camel.yaml", []byte(ordersFile), "nope", "x")

		assert.Equal(t, interaction.CodeElementNotFound, interaction.CodeOf(err))
	})
}

func TestSetDisabled(t *testing.T) {
	t.Run("expands a uri shorthand", func(t *testing.T) {
		out, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "orders", "to-1", true)
		require.NoError(t, err)

		step := reparse(t, out).Routes[0].From.Steps[0]
		assert.True(t, step.Disabled)
		assert.Equal(t, "direct:audit", step.URI)
	})

	t.Run("expands a kamelet shorthand", func(t *testing.T) {
		out, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "orders", "kamelet-1", true)
		require.NoError(t, err)

		step := reparse(t, out).Routes[0].From.Steps[1]
		assert.True(t, step.Disabled)
		assert.Equal(t, "kamelet:slack-sink", step.URI)
	})

	t.Run("enables a disabled step", func(t *testing.T) {
		out, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "orders", "to-archive", false)
		require.NoError(t, err)

		step := reparse(t, out).Routes[0].From.Steps[2]
		assert.False(t, step.Disabled)
		assert.NotContains(t, string(out), "disabled")
	})

	t.Run("enabling a shorthand step is a no-op", func(t *testing.T) {
		out, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "orders", "to-1", false)
		require.NoError(t, err)

		assert.Equal(t, ordersFile, string(out))
	})

	t.Run("disables a from endpoint", func(t *testing.T) {
		out, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "orders", "from-1", true)
		require.NoError(t, err)

		assert.True(t, reparse(t, out).Routes[0].From.Disabled)
	})

	t.Run("unknown element", func(t *testing.T) {
		_, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "orders", "to-9", true)

		assert.Equal(t, interaction.CodeElementNotFound, interaction.CodeOf(err))
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "missing", "to-1", true)

		assert.Equal(t, interaction.CodeElementNotFound, interaction.CodeOf(err))
	})

	t.Run("generated ids resolve within the named route", func(t *testing.T) {
		out, err := setDisabled("twins.camel.yaml", []byte(twinRoutesFile), "b", "to-1", true)
		require.NoError(t, err)

		routes := reparse(t, out).Routes
		require.Len(t, routes, 2)
		assert.False(t, routes[0].From.Steps[0].Disabled)
		assert.True(t, routes[1].From.Steps[0].Disabled)
		assert.Equal(t, "kafka:two", routes[1].From.Steps[0].URI)
	})

	t.Run("an element of another route is not found", func(t *testing.T) {
		_, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "audit", "kamelet-1", true)

		assert.Equal(t, interaction.CodeElementNotFound, interaction.CodeOf(err))
	})

	t.Run("without a route the whole file is searched", func(t *testing.T) {
		out, err := setDisabled("orders.camel.yaml", []byte(ordersFile), "", "log-1", true)
		require.NoError(t, err)

		assert.True(t, reparse(t, out).Routes[1].From.Steps[0].Disabled)
	})
}
