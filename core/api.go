// File: api.go
// Role: thin, read-only public facade over Graph — constructors and
// getters only, no algorithms — built on the single graphLock concurrency
// model documented in doc.go.
package core

// VertexCount returns the number of vertices in the graph. O(1).
func (g *Graph) VertexCount() int {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	return len(g.vertices)
}

// EdgeCount returns the number of edges in the graph. O(1).
func (g *Graph) EdgeCount() int {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	return len(g.edges)
}

// IsDirected reports the graph-level directedness flag parsed from GML. O(1).
func (g *Graph) IsDirected() bool {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	return g.directed
}

// HasVertex reports whether v is a valid vertex index.
func (g *Graph) HasVertex(v int) bool {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	return v >= 0 && v < len(g.vertices)
}

// EdgeID returns the edge id of an edge between u and v, if one exists.
// For directed graphs this only matches u->v; for undirected graphs it
// matches either orientation.
func (g *Graph) EdgeID(u, v int) (int, bool) {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	id, ok := g.edgeIndex[[2]int{u, v}]
	return id, ok
}

// IncidentEdges returns the ids of every edge incident to v, in ascending
// edge-id order, following the out-direction for directed graphs and both
// directions (with a self-loop doubled, per igraph convention) for
// undirected graphs.
func (g *Graph) IncidentEdges(v int) []int {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if v < 0 || v >= len(g.outAdj) {
		return nil
	}
	out := make([]int, len(g.outAdj[v]))
	copy(out, g.outAdj[v])
	return out
}

// EdgeEndpoints returns the (from, to) vertex indices of edge e as declared
// in the GML file (i.e. not normalized for the undirected mirror).
func (g *Graph) EdgeEndpoints(e int) (int, int, bool) {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if e < 0 || e >= len(g.edges) {
		return 0, 0, false
	}
	edge := g.edges[e]
	return edge.From, edge.To, true
}

// OppositeVertex returns the endpoint of edge e other than v. If e is a
// self-loop (from == to == v), it returns v itself.
func (g *Graph) OppositeVertex(e, v int) (int, bool) {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if e < 0 || e >= len(g.edges) {
		return 0, false
	}
	edge := g.edges[e]
	switch v {
	case edge.From:
		return edge.To, true
	case edge.To:
		return edge.From, true
	default:
		return 0, false
	}
}

// VertexAttr returns the raw attribute value declared under the exact key
// on vertex v. Most callers that know the canonical schema should prefer
// VertexAttrByPrefix, which matches the way GML attribute names are
// actually validated (§4.2).
func (g *Graph) VertexAttr(v int, key string) (AttrValue, bool) {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if v < 0 || v >= len(g.vertices) {
		return AttrValue{}, false
	}
	return attrByExactKey(g.vertices[v].attrs, key)
}

// EdgeAttr returns the raw attribute value declared under the exact key on
// edge e.
func (g *Graph) EdgeAttr(e int, key string) (AttrValue, bool) {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if e < 0 || e >= len(g.edges) {
		return AttrValue{}, false
	}
	return attrByExactKey(g.edges[e].attrs, key)
}

// VertexAttrByPrefix returns the first declared attribute of vertex v whose
// key case-insensitively starts with name, along with the literal key that
// matched. This is the primitive the validator and the path engine use to
// resolve canonical attributes like "bandwidth_down" or "ip_address".
func (g *Graph) VertexAttrByPrefix(v int, name string) (key string, val AttrValue, ok bool) {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if v < 0 || v >= len(g.vertices) {
		return "", AttrValue{}, false
	}
	return attrByPrefix(g.vertices[v].attrs, name)
}

// EdgeAttrByPrefix is VertexAttrByPrefix's edge-side twin.
func (g *Graph) EdgeAttrByPrefix(e int, name string) (key string, val AttrValue, ok bool) {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if e < 0 || e >= len(g.edges) {
		return "", AttrValue{}, false
	}
	return attrByPrefix(g.edges[e].attrs, name)
}

// VertexAttrNames returns the declared attribute keys of vertex v, in
// declaration order. The attribute validator does not call it; it looks up
// only the canonical keys it knows by prefix.
func (g *Graph) VertexAttrNames(v int) []string {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if v < 0 || v >= len(g.vertices) {
		return nil
	}
	names := make([]string, 0, len(g.vertices[v].attrs))
	for _, f := range g.vertices[v].attrs {
		names = append(names, f.Key)
	}
	return names
}

// EdgeAttrNames returns the declared attribute keys of edge e, in
// declaration order.
func (g *Graph) EdgeAttrNames(e int) []string {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	if e < 0 || e >= len(g.edges) {
		return nil
	}
	names := make([]string, 0, len(g.edges[e].attrs))
	for _, f := range g.edges[e].attrs {
		names = append(names, f.Key)
	}
	return names
}

// AllVertexIndices returns 0..VertexCount()-1, for callers that want to walk
// every vertex without re-acquiring the lock per index.
func (g *Graph) AllVertexIndices() []int {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	out := make([]int, len(g.vertices))
	for i := range out {
		out[i] = i
	}
	return out
}

// AllEdgeIndices returns 0..EdgeCount()-1 in declaration order.
func (g *Graph) AllEdgeIndices() []int {
	g.graphLock.Lock()
	defer g.graphLock.Unlock()
	out := make([]int, len(g.edges))
	for i := range out {
		out[i] = i
	}
	return out
}
