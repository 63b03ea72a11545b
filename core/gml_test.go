package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticenet/topology/core"
)

const twoVertexGML = `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" label "A" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" label "B" ]
  edge [ source 1 target 1 latency "1 ms" packet_loss 0.0 ]
  edge [ source 2 target 2 latency "1 ms" packet_loss 0.0 ]
  edge [ source 1 target 2 latency "10 ms" packet_loss 0.02 ]
]
`

// TestParseGML_VertexAndEdgeCounts verifies basic node/edge bookkeeping.
func TestParseGML_VertexAndEdgeCounts(t *testing.T) {
	g, err := core.ParseGML(strings.NewReader(twoVertexGML))
	require.NoError(t, err)
	assert.Equal(t, 2, g.VertexCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.False(t, g.IsDirected())
}

// TestParseGML_EdgeIDBothDirections checks undirected edge lookups succeed
// regardless of query order.
func TestParseGML_EdgeIDBothDirections(t *testing.T) {
	g, err := core.ParseGML(strings.NewReader(twoVertexGML))
	require.NoError(t, err)
	idFwd, ok := g.EdgeID(0, 1)
	require.True(t, ok)
	idRev, ok := g.EdgeID(1, 0)
	require.True(t, ok)
	assert.Equal(t, idFwd, idRev)
}

// TestParseGML_AttrByPrefixCaseInsensitive checks the declared-order,
// case-insensitive prefix match used throughout the validator.
func TestParseGML_AttrByPrefixCaseInsensitive(t *testing.T) {
	g, err := core.ParseGML(strings.NewReader(twoVertexGML))
	require.NoError(t, err)
	key, val, ok := g.VertexAttrByPrefix(0, "BANDWIDTH_DOWN")
	require.True(t, ok)
	assert.Equal(t, "bandwidth_down", key)
	assert.Equal(t, core.AttrString, val.Kind)
	assert.Equal(t, "1 Mbit", val.Str)
}

// TestParseGML_DuplicateVertexIDFails ensures a repeated "id" attribute is rejected.
func TestParseGML_DuplicateVertexIDFails(t *testing.T) {
	src := `graph [ node [ id 1 ] node [ id 1 ] ]`
	_, err := core.ParseGML(strings.NewReader(src))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateVertexID)
}

// TestParseGML_MissingGraphBlockFails ensures a file with no top-level
// "graph" block is rejected rather than silently producing an empty graph.
func TestParseGML_MissingGraphBlockFails(t *testing.T) {
	_, err := core.ParseGML(strings.NewReader(`foo [ bar 1 ]`))
	assert.Error(t, err)
}

// TestParseGML_SelfLoopDoublesIncidence checks the deliberate double-count
// of undirected self-loops that the completeness check (§4.2) relies on.
func TestParseGML_SelfLoopDoublesIncidence(t *testing.T) {
	g, err := core.ParseGML(strings.NewReader(twoVertexGML))
	require.NoError(t, err)
	// vertex 0 ("A") has: self-loop (counted twice) + A-B edge = 3 incident ids
	assert.Len(t, g.IncidentEdges(0), 3)
}
