package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticenet/topology/pathfind"
)

// fakeGraph is a minimal in-memory adjacency list implementing
// pathfind.EdgeWeights, independent of core.Graph, so this package's tests
// don't need a GML fixture to exercise the algorithm.
type fakeGraph struct {
	n       int
	edges   [][3]int // {from, to, weight-index}
	weights []float64
	adj     [][]int // vertex -> incident edge indices
}

func newFakeGraph(n int) *fakeGraph {
	return &fakeGraph{n: n, adj: make([][]int, n)}
}

func (f *fakeGraph) addEdge(u, v int, w float64) {
	id := len(f.edges)
	f.edges = append(f.edges, [3]int{u, v, id})
	f.weights = append(f.weights, w)
	f.adj[u] = append(f.adj[u], id)
	f.adj[v] = append(f.adj[v], id)
}

func (f *fakeGraph) VertexCount() int           { return f.n }
func (f *fakeGraph) IncidentEdges(v int) []int  { return f.adj[v] }
func (f *fakeGraph) Weight(e int) float64       { return f.weights[e] }
func (f *fakeGraph) OppositeVertex(e, v int) (int, bool) {
	edge := f.edges[e]
	switch v {
	case edge[0]:
		return edge[1], true
	case edge[1]:
		return edge[0], true
	default:
		return 0, false
	}
}

// TestShortestPaths_TriangleBeatsDirect mirrors S3: A-C-B (20ms) beats A-B
// (100ms) once the cheaper two-hop route exists.
func TestShortestPaths_TriangleBeatsDirect(t *testing.T) {
	g := newFakeGraph(3) // 0=A, 1=B, 2=C
	g.addEdge(0, 1, 100)
	g.addEdge(0, 2, 10)
	g.addEdge(2, 1, 10)

	res, err := pathfind.ShortestPaths(g, 0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.Dist[1])

	path, ok := res.PathTo(1)
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 1}, path)
}

// TestShortestPaths_UnreachableVertex reports infinite distance and no path.
func TestShortestPaths_UnreachableVertex(t *testing.T) {
	g := newFakeGraph(3)
	g.addEdge(0, 1, 5)
	// vertex 2 has no edges at all.

	res, err := pathfind.ShortestPaths(g, 0)
	require.NoError(t, err)
	_, ok := res.PathTo(2)
	assert.False(t, ok)
}

// TestShortestPaths_NegativeWeightRejected guards the upfront scan.
func TestShortestPaths_NegativeWeightRejected(t *testing.T) {
	g := newFakeGraph(2)
	g.addEdge(0, 1, -5)
	_, err := pathfind.ShortestPaths(g, 0)
	assert.ErrorIs(t, err, pathfind.ErrNegativeWeight)
}

// TestShortestPaths_SourceOutOfRange guards against a bad source index.
func TestShortestPaths_SourceOutOfRange(t *testing.T) {
	g := newFakeGraph(2)
	g.addEdge(0, 1, 1)
	_, err := pathfind.ShortestPaths(g, 5)
	assert.ErrorIs(t, err, pathfind.ErrSourceNotFound)
}
