// File: engine.go
// Role: construction — GML load, attribute validation, structural
// classification, and the fatal-at-construction invariant checks (I1-I3),
// per §6.4/§7.
package topology

import (
	"fmt"
	"sync"

	"github.com/latticenet/topology/attach"
	"github.com/latticenet/topology/collab"
	"github.com/latticenet/topology/core"
	"github.com/latticenet/topology/netpath"
	"github.com/latticenet/topology/pathfind"
	"github.com/latticenet/topology/topoerr"
	"github.com/latticenet/topology/validate"
	"github.com/sirupsen/logrus"
)

// Engine is the constructed, load-once topology and routing engine. No
// partial Engine is ever observable: New either returns a fully validated
// Engine or a *topoerr.Error (§6.4).
type Engine struct {
	graph *core.Graph

	vertexAttrs []validate.VertexAttrs
	edgeAttrs   []validate.EdgeAttrs

	edgeWeightsLock sync.RWMutex
	weights         []float64 // indexed by edge id, latency_ms

	registry *attach.Registry
	policy   *attach.Policy

	cache *netpath.Cache

	topologyLock      sync.Mutex
	shortestPathCount uint64
	queryCount        uint64

	useShortest bool
	isDirected  bool
	classified  validate.Classification

	worker collab.Worker
	rng    collab.Random
	log    *logrus.Logger
}

// New loads the GML topology file at path, validates it, and returns a
// ready-to-query Engine. Construction fails (GraphLoad, GraphStructure, or
// Attribute kind) if the file cannot be opened, the GML is malformed, a
// required attribute is missing/mistyped/out of range, or the graph fails
// I1/I2 (§6.4).
func New(path string, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	g, err := core.NewFromGML(path)
	if err != nil {
		cfg.logger.Errorf("topology: GraphLoad: %v", err)
		return nil, topoerr.New(topoerr.KindGraphLoad, err)
	}

	vertexAttrs, edgeAttrs, err := validate.AllAttributes(g)
	if err != nil {
		cfg.logger.Errorf("topology: Attribute: %v", err)
		return nil, err // already a *topoerr.Error
	}

	classified := validate.Classify(g)
	if !classified.IsConnected {
		cfg.logger.Errorf("topology: GraphStructure: graph is not strongly connected (clusters=%d)", classified.ClusterCount)
		return nil, topoerr.New(topoerr.KindGraphStructure, fmt.Errorf("%w: clusterCount=%d", topoerr.ErrNotStronglyConnected, classified.ClusterCount))
	}
	if classified.ClusterCount != 1 {
		cfg.logger.Errorf("topology: GraphStructure: clusterCount=%d, want 1", classified.ClusterCount)
		return nil, topoerr.New(topoerr.KindGraphStructure, topoerr.ErrMultipleClusters)
	}
	if !cfg.useShortest && !classified.IsComplete {
		cfg.logger.Errorf("topology: GraphStructure: useShortest=false requires a complete graph")
		return nil, topoerr.New(topoerr.KindGraphStructure, topoerr.ErrIncompleteGraph)
	}

	weights := make([]float64, len(edgeAttrs))
	for i, ea := range edgeAttrs {
		weights[i] = ea.LatencyMS
	}

	e := &Engine{
		graph:       g,
		vertexAttrs: vertexAttrs,
		edgeAttrs:   edgeAttrs,
		weights:     weights,
		registry:    attach.NewRegistry(),
		policy:      attach.NewPolicy(),
		cache:       netpath.NewCache(),
		useShortest: cfg.useShortest,
		isDirected:  g.IsDirected(),
		classified:  classified,
		worker:      cfg.worker,
		rng:         cfg.rng,
		log:         cfg.logger,
	}
	return e, nil
}

// Close logs every cached path at debug level (§6.3) before the Engine is
// dropped. It does not release any OS resource; core.Graph holds no file
// handle past NewFromGML.
func (e *Engine) Close() {
	for _, p := range e.cache.All() {
		e.log.Debugf("topology: shutdown: cached path %d->%d latency=%.3fms reliability=%.4f direct=%v packets=%d",
			p.SrcVertex, p.DstVertex, p.LatencyMS, p.Reliability, p.IsDirect, p.PacketCount())
	}
}

// MinimumPathLatency returns the minimum latency_ms over every cached path,
// or 0 if nothing has been cached yet (I5).
func (e *Engine) MinimumPathLatency() float64 {
	return e.cache.MinimumLatency()
}

// QueryCount returns the number of latency/reliability/routability/
// packet-counter queries served so far, guarded by topologyLock (§5).
func (e *Engine) QueryCount() uint64 {
	e.topologyLock.Lock()
	defer e.topologyLock.Unlock()
	return e.queryCount
}

// ShortestPathCount returns the number of Dijkstra batch runs performed so
// far (§4.3 Case C), guarded by topologyLock (§5).
func (e *Engine) ShortestPathCount() uint64 {
	e.topologyLock.Lock()
	defer e.topologyLock.Unlock()
	return e.shortestPathCount
}

// Attach binds address to a vertex chosen by the attachment policy (§4.6)
// and records address's own network IP against that vertex in the registry
// (§4.5); ipHint/cityHint/countryHint only steer which vertex is chosen,
// exactly as the original keeps nodeIP and ipAddressHint separate. Returns
// the chosen vertex's declared bandwidths.
func (e *Engine) Attach(address collab.Address, ipHint, cityHint, countryHint string) attach.Result {
	return e.policy.Attach(address, e.registry, e.rng, e.vertexAttrs, ipHint, cityHint, countryHint)
}

// Detach removes ip's binding, per §4.5's preserved quirk (§9.1): the
// vertex it pointed at remains a Dijkstra target.
func (e *Engine) Detach(ip uint32) {
	e.registry.Detach(ip)
}

// Lookup resolves an attached IP to its vertex index.
func (e *Engine) Lookup(ip uint32) (int, bool) {
	return e.registry.Lookup(ip)
}

// graphWeights adapts core.Graph plus the engine's weight slice to the
// pathfind.EdgeWeights interface. Each method locks for its single call
// only: Weight takes edgeWeightsLock shared, and the graph methods take
// core.Graph's graphLock inside core. Neither lock is held across the
// Dijkstra run, and the two are never held at the same time.
type graphWeights struct {
	e *Engine
}

func (w graphWeights) VertexCount() int                      { return w.e.graph.VertexCount() }
func (w graphWeights) IncidentEdges(v int) []int              { return w.e.graph.IncidentEdges(v) }
func (w graphWeights) OppositeVertex(edge, v int) (int, bool) { return w.e.graph.OppositeVertex(edge, v) }
func (w graphWeights) Weight(edge int) float64 {
	w.e.edgeWeightsLock.RLock()
	defer w.e.edgeWeightsLock.RUnlock()
	return w.e.weights[edge]
}

var _ pathfind.EdgeWeights = graphWeights{}
