package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const editable = `- routeConfiguration:
    id: errors
- route:
    id: orders
    from:
      uri: kafka:orders
      steps:
        - to: direct:audit
        - choice:
            when:
              - simple: "${body} != null"
                steps:
                  - to:
                      id: to-archive
                      uri: kafka:archive
    errorHandler:
      deadLetterChannel:
        deadLetterUri: kafka:dlq
- routeTemplate:
    id: tpl
    route:
      from:
        uri: timer:tick
- rest:
    id: api
`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument("orders.camel.yaml", []byte(editable))
	require.NoError(t, err)

	var ids []string
	for _, e := range doc.Elements {
		ids = append(ids, string(e.Kind)+":"+e.ID)
	}
	assert.ElementsMatch(t, []string{
		"routeConfiguration:errors",
		"route:orders",
		"step:from-1",
		"step:to-1",
		"step:to-archive",
		"step:choice-1",
		"errorHandler:deadLetterChannel-1",
		"route:orders-route-3",
		"step:from-1",
		"rest:api",
	}, ids)

	t.Run("ids match the parsed integration", func(t *testing.T) {
		integration, err := ParseIntegration("orders.camel.yaml", []byte(editable))
		require.NoError(t, err)

		for _, route := range integration.Routes {
			_, ok := doc.Find(ElementRoute, route.ID)
			assert.True(t, ok, route.ID)
		}
	})

	t.Run("elements point at their definition", func(t *testing.T) {
		route, ok := doc.Find(ElementRoute, "orders")
		require.True(t, ok)
		assert.Equal(t, 1, route.Index)
		assert.Equal(t, "route", route.Key)
		assert.Equal(t, "orders", scalar(route.Value(), "id"))

		tpl, ok := doc.Find(ElementRoute, "orders-route-3")
		require.True(t, ok)
		assert.Equal(t, 2, tpl.Index)

		shorthand, ok := doc.Find(ElementStep, "to-1")
		require.True(t, ok)
		assert.Equal(t, "to", shorthand.Key)
		assert.Equal(t, yaml.ScalarNode, shorthand.Value().Kind)
		assert.Equal(t, "direct:audit", shorthand.Value().Value)

		dlc, ok := doc.Find("", "deadLetterChannel-1")
		require.True(t, ok)
		assert.Equal(t, "kafka:dlq", scalar(dlc.Value(), "deadLetterUri"))
	})

	t.Run("missing element", func(t *testing.T) {
		_, ok := doc.Find(ElementRoute, "to-1")
		assert.False(t, ok)
	})

	t.Run("lookups within a route skip other definitions", func(t *testing.T) {
		from, ok := doc.FindInRoute("orders-route-3", ElementStep, "from-1")
		require.True(t, ok)
		assert.Equal(t, 2, from.Index)
		assert.Equal(t, "timer:tick", scalar(from.Value(), "uri"))

		_, ok = doc.FindInRoute("orders-route-3", ElementStep, "to-1")
		assert.False(t, ok)

		_, ok = doc.FindInRoute("missing", ElementStep, "from-1")
		assert.False(t, ok)
	})
}

func TestDecodeDocument_Invalid(t *testing.T) {
	_, err := DecodeDocument("bad.camel.yaml", []byte("nope"))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad.camel.yaml", pe.File)
}

func TestDocument_Encode(t *testing.T) {
	doc, err := DecodeDocument("orders.camel.yaml", []byte(editable))
	require.NoError(t, err)

	route, _ := doc.Find(ElementRoute, "orders")
	SetScalar(route.Value(), "group", "billing", "!!str")
	assert.True(t, RemoveKey(route.Value(), "errorHandler"))
	assert.False(t, RemoveKey(route.Value(), "errorHandler"))

	out, err := doc.Encode()
	require.NoError(t, err)

	integration, err := ParseIntegration("orders.camel.yaml", out)
	require.NoError(t, err)
	require.Len(t, integration.Routes, 2)
	assert.Equal(t, "billing", integration.Routes[0].Group)
	assert.Nil(t, integration.Routes[0].ErrorHandler)
	assert.Contains(t, string(out), "id: errors")
}

func TestSetScalar(t *testing.T) {
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("uri: a\n"), &n))
	m := n.Content[0]

	SetScalar(m, "uri", "b", "!!str")
	SetScalar(m, "disabled", "true", "!!bool")

	assert.Equal(t, "b", scalar(m, "uri"))
	assert.True(t, boolean(m, "disabled", false))
	assert.Len(t, m.Content, 4)
}
