// File: types.go
// Role: Vertex, Edge, Graph types, attribute value representation, sentinel
// errors, and the NewGraph constructor: same separate-lock-per-concern
// discipline and sentinel-error convention used throughout this module,
// keyed on integer vertex indices rather than
// string vertex IDs since the routing engine's whole query surface is
// index-based (cache keys, Dijkstra targets, attachment).
package core

import (
	"errors"
	"strings"
	"sync"
)

// Sentinel errors for core graph operations. Callers should compare with
// errors.Is rather than matching message text.
var (
	// ErrVertexNotFound indicates an operation referenced a non-existent vertex index.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrDuplicateVertexID indicates two vertices declared the same "id" attribute.
	ErrDuplicateVertexID = errors.New("core: duplicate vertex id")
)

// AttrKind classifies a parsed GML attribute value, mirroring the
// igraph_attribute_type_t distinction between numeric and string attributes
// that the attribute validator must check against the declared schema.
type AttrKind int

const (
	// AttrString marks an attribute carried as a GML string literal.
	AttrString AttrKind = iota
	// AttrNumeric marks an attribute carried as a GML integer or real literal.
	AttrNumeric
)

// AttrValue is the raw, not-yet-validated value of one vertex or edge
// attribute as it was parsed out of the GML file. The attribute validator
// (package validate) is responsible for checking Kind against the declared
// schema and for parsing String into a typed value (bandwidth, duration).
type AttrValue struct {
	Kind   AttrKind
	Str    string
	Number float64
}

// attrField is one declared "key value" pair, kept in GML declaration order
// so that prefix-matching against the canonical attribute schema (§4.2) is
// deterministic: the first declared key that matches wins, exactly like the
// source's cattribute lookups scan attributes in table order.
type attrField struct {
	Key   string
	Value AttrValue
}

// Vertex is one node of the topology graph, keyed by its 0-based index in
// GML declaration order (not to be confused with the "id" attribute, which
// is a user-supplied integer carried as an attribute named "id").
type Vertex struct {
	Index int
	attrs []attrField
}

// Edge is one connection between two vertex indices. ID is the 0-based
// index in GML declaration order; enumeration by ID order is what makes
// self-path selection and Dijkstra tie-breaking deterministic.
type Edge struct {
	ID    int
	From  int
	To    int
	attrs []attrField
}

// attrByExactKey looks up an attribute by its literal declared key.
func attrByExactKey(fields []attrField, key string) (AttrValue, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return AttrValue{}, false
}

// attrByPrefix returns the first declared attribute whose key matches
// wantName as a case-insensitive prefix: strings.HasPrefix(lower(key),
// lower(wantName)). This mirrors
// _topology_isValidVertexAttributeKey/_topology_isValidEdgeAttributeKey,
// which use g_ascii_strncasecmp(attrName, expected, strlen(expected)).
func attrByPrefix(fields []attrField, wantName string) (string, AttrValue, bool) {
	want := strings.ToLower(wantName)
	for _, f := range fields {
		key := strings.ToLower(f.Key)
		if len(key) >= len(want) && key[:len(want)] == want {
			return f.Key, f.Value, true
		}
	}
	return "", AttrValue{}, false
}

// Graph is the parsed, attributed topology graph. It is built once by
// NewFromGML and is immutable thereafter; graphLock exists to serialize
// concurrent readers the way the source's igraph wrapper required, and to
// give every other subsystem (validator, path engine) one documented place
// to take a lock before touching vertex/edge state.
type Graph struct {
	graphLock sync.Mutex

	directed bool

	vertices []*Vertex
	edges    []*Edge

	// outAdj[v] holds the indices (into edges), in edge-id order, of every
	// edge incident to v: v->* for directed graphs, v->* and *->v (mirrored)
	// for undirected graphs. A true self-loop appears once per direction.
	outAdj [][]int

	// edgeIndex[u][v] is the edge id of the first declared edge between u and
	// v (respecting direction for directed graphs); used by EdgeID lookups.
	edgeIndex map[[2]int]int
}

// NewGraph allocates an empty Graph with the given directedness and vertex
// capacity hint. It is exported primarily for tests and for the GML loader;
// production callers should use NewFromGML.
func NewGraph(directed bool, vertexCapacity int) *Graph {
	return &Graph{
		directed:  directed,
		vertices:  make([]*Vertex, 0, vertexCapacity),
		edges:     make([]*Edge, 0, vertexCapacity),
		outAdj:    make([][]int, 0, vertexCapacity),
		edgeIndex: make(map[[2]int]int),
	}
}

// addVertex appends a new vertex and returns its assigned index. It takes
// no lock; its only caller is ParseGML, which builds the Graph before
// returning it to anyone else.
func (g *Graph) addVertex(fields []attrField) int {
	idx := len(g.vertices)
	g.vertices = append(g.vertices, &Vertex{Index: idx, attrs: fields})
	g.outAdj = append(g.outAdj, nil)
	return idx
}

// addEdge appends a new edge between from and to and updates the adjacency
// index. For undirected graphs, the edge is indexed from both endpoints.
func (g *Graph) addEdge(from, to int, fields []attrField) int {
	id := len(g.edges)
	g.edges = append(g.edges, &Edge{ID: id, From: from, To: to, attrs: fields})
	g.outAdj[from] = append(g.outAdj[from], id)
	if _, ok := g.edgeIndex[[2]int{from, to}]; !ok {
		g.edgeIndex[[2]int{from, to}] = id
	}
	if !g.directed {
		if from != to {
			g.outAdj[to] = append(g.outAdj[to], id)
		} else {
			// igraph's incident-edge iterator counts an undirected self-loop
			// twice (once per "end" of the loop); mirror that here so the
			// completeness check's compensating -1 lines up with §4.2.
			g.outAdj[from] = append(g.outAdj[from], id)
		}
		if _, ok := g.edgeIndex[[2]int{to, from}]; !ok {
			g.edgeIndex[[2]int{to, from}] = id
		}
	}
	return id
}
