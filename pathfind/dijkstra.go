// File: dijkstra.go
package pathfind

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
)

// ErrNegativeWeight mirrors the teacher's upfront-scan sentinel: the engine
// never expects negative latencies (§3's Non-goals), so a negative edge
// weight indicates a validation bug rather than a legitimate topology.
var ErrNegativeWeight = errors.New("pathfind: negative edge weight")

// ErrSourceNotFound indicates the requested source vertex index is out of range.
var ErrSourceNotFound = errors.New("pathfind: source vertex not found")

// EdgeWeights is the minimal read-only view Dijkstra needs of the graph:
// incident edges of a vertex, the opposite endpoint of an edge, and that
// edge's latency weight. The path engine supplies this from core.Graph plus
// the parsed EdgeAttrs slice so pathfind never imports package validate.
type EdgeWeights interface {
	VertexCount() int
	IncidentEdges(v int) []int
	OppositeVertex(e, v int) (int, bool)
	Weight(e int) float64
}

// heapEntry is one lazy-decrease-key candidate: (distance, vertex) pushed
// into the min-heap; stale entries (superseded by a later, smaller push)
// are detected and skipped at pop time by comparing against dist[].
type heapEntry struct {
	dist float64
	v    int
}

type entryHeap []heapEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)         { *h = append(*h, x.(heapEntry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Result is the outcome of a single multi-target Dijkstra run from one
// source vertex.
type Result struct {
	Dist []float64 // Dist[v] == math.Inf(1) if unreachable
	Prev []int     // Prev[v] == -1 if v has no predecessor (source or unreachable)
}

// PathTo reconstructs the vertex sequence from the run's source to dst,
// inclusive of both endpoints, in source-to-destination order. Returns
// false if dst is unreachable.
func (r *Result) PathTo(dst int) ([]int, bool) {
	if math.IsInf(r.Dist[dst], 1) {
		return nil, false
	}
	var rev []int
	for v := dst; v != -1; v = r.Prev[v] {
		rev = append(rev, v)
	}
	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path, true
}

// ShortestPaths runs Dijkstra once from source over g, producing distances
// and predecessors to every reachable vertex. Grounded on dijkstra.Dijkstra's
// structure: upfront negative-weight scan, then a lazy-decrease-key heap
// loop that pushes a duplicate entry on relax rather than mutating the heap
// in place.
func ShortestPaths(g EdgeWeights, source int) (*Result, error) {
	n := g.VertexCount()
	if source < 0 || source >= n {
		return nil, fmt.Errorf("%w: %d", ErrSourceNotFound, source)
	}

	// 1) Upfront scan: reject negative weights before doing any work.
	for v := 0; v < n; v++ {
		for _, e := range g.IncidentEdges(v) {
			if g.Weight(e) < 0 {
				return nil, fmt.Errorf("%w: edge %d", ErrNegativeWeight, e)
			}
		}
	}

	// 2) Initialize distance/predecessor arrays.
	dist := make([]float64, n)
	prev := make([]int, n)
	for v := range dist {
		dist[v] = math.Inf(1)
		prev[v] = -1
	}
	dist[source] = 0

	// 3) Lazy-decrease-key heap loop.
	h := &entryHeap{{dist: 0, v: source}}
	heap.Init(h)
	visited := make([]bool, n)
	for h.Len() > 0 {
		top := heap.Pop(h).(heapEntry)
		v := top.v
		if visited[v] {
			continue // stale entry superseded by an earlier, smaller pop
		}
		visited[v] = true

		for _, e := range g.IncidentEdges(v) {
			w, ok := g.OppositeVertex(e, v)
			if !ok || w == v || visited[w] {
				continue
			}
			nd := dist[v] + g.Weight(e)
			if nd < dist[w] {
				dist[w] = nd
				prev[w] = v
				heap.Push(h, heapEntry{dist: nd, v: w})
			}
		}
	}

	return &Result{Dist: dist, Prev: prev}, nil
}
