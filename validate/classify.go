// File: classify.go
// Role: strong-connectivity (Tarjan SCC) and completeness classification,
// per §4.2. No SCC routine exists anywhere in the retrieved corpus (dfs only
// detects cycles and topologically sorts), so this is hand-built in dfs's
// vertex-coloring idiom: White (unvisited), Gray (on stack), Black (done).
package validate

import "github.com/latticenet/topology/core"

// Classification is the one-shot structural verdict computed at load time.
type Classification struct {
	IsDirected   bool
	IsConnected  bool // strongly connected, per the strong-components test
	ClusterCount int
	IsComplete   bool
}

// tarjanState carries the bookkeeping Tarjan's algorithm needs across the
// recursive descent; kept as a struct (not closures over locals) to mirror
// dfs's dfsWalker convention of one state struct per traversal.
type tarjanState struct {
	g  *core.Graph
	idx []int // discovery index per vertex, -1 if White
	low []int // lowlink per vertex
	onStack []bool
	stack []int
	counter int
	clusters int
}

// Classify computes the full §4.2 classification of g.
func Classify(g *core.Graph) Classification {
	n := g.VertexCount()
	c := Classification{IsDirected: g.IsDirected()}

	ts := &tarjanState{
		g:       g,
		idx:     make([]int, n),
		low:     make([]int, n),
		onStack: make([]bool, n),
	}
	for i := range ts.idx {
		ts.idx[i] = -1
	}
	for v := 0; v < n; v++ {
		if ts.idx[v] == -1 {
			ts.strongConnect(v)
		}
	}
	c.ClusterCount = ts.clusters
	c.IsConnected = n == 0 || ts.clusters == 1
	c.IsComplete = isComplete(g)
	return c
}

// strongConnect is Tarjan's recursive DFS. For an undirected graph every
// edge is traversable in both directions, so the "strongly connected
// components" it finds coincide with ordinary connected components — exactly
// the degenerate case the engine relies on for undirected topologies.
func (ts *tarjanState) strongConnect(v int) {
	// 1. Assign v the next discovery index and lowlink; push and mark Gray.
	ts.idx[v] = ts.counter
	ts.low[v] = ts.counter
	ts.counter++
	ts.stack = append(ts.stack, v)
	ts.onStack[v] = true

	// 2. Explore every incident edge in edge-id order for determinism.
	for _, e := range ts.g.IncidentEdges(v) {
		w, ok := ts.g.OppositeVertex(e, v)
		if !ok || w == v {
			continue // self-loops never affect connectivity classification
		}
		if ts.idx[w] == -1 {
			ts.strongConnect(w)
			if ts.low[w] < ts.low[v] {
				ts.low[v] = ts.low[w]
			}
		} else if ts.onStack[w] {
			if ts.idx[w] < ts.low[v] {
				ts.low[v] = ts.idx[w]
			}
		}
	}

	// 3. v is a component root iff its lowlink never dropped below its own
	// discovery index; pop the component off the stack.
	if ts.low[v] == ts.idx[v] {
		for {
			w := ts.stack[len(ts.stack)-1]
			ts.stack = ts.stack[:len(ts.stack)-1]
			ts.onStack[w] = false
			if w == v {
				break
			}
		}
		ts.clusters++
	}
}

// isComplete implements §4.2's definition verbatim: out-degree >= V for
// every vertex, minus 1 for undirected graphs where v carries a self-loop
// (igraph's undirected adjacency counts a self-loop twice). A complete
// graph is therefore required to carry a self-loop at every vertex; a
// complete graph without self-loops is classified incomplete (§9.4).
func isComplete(g *core.Graph) bool {
	n := g.VertexCount()
	for v := 0; v < n; v++ {
		degree := len(g.IncidentEdges(v))
		if !g.IsDirected() && hasSelfLoop(g, v) {
			degree--
		}
		if degree < n {
			return false
		}
	}
	return true
}

func hasSelfLoop(g *core.Graph, v int) bool {
	for _, e := range g.IncidentEdges(v) {
		u, w, ok := g.EdgeEndpoints(e)
		if ok && u == v && w == v {
			return true
		}
	}
	return false
}
