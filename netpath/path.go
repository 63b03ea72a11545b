// Package netpath holds the Path value the engine hands back from a routing
// query, and the two-level cache that stores them, per §3/§4.4. Grounded on
// the source's topology.c cache admission logic
// (_topology_shouldStorePath/_topology_storePathInCache), expressed with
// Go's sync/atomic for the packet counter rather than a lock, since it is
// the only field a Path ever mutates after construction.
package netpath

import "sync/atomic"

// Path is a computed routing result between two vertices. Everything except
// PacketCount is fixed at construction; Path objects are created exactly
// once per (src, dst) pair admitted into the cache and never replaced.
type Path struct {
	IsDirect    bool
	SrcVertex   int
	DstVertex   int
	LatencyMS   float64
	Reliability float64

	packetCount uint64
}

// NewPath constructs a Path, mirroring the source's pathNew(is_direct, src,
// dst, latency_ms, reliability) collaborator interface (§6.1).
func NewPath(isDirect bool, src, dst int, latencyMS, reliability float64) *Path {
	return &Path{
		IsDirect:    isDirect,
		SrcVertex:   src,
		DstVertex:   dst,
		LatencyMS:   latencyMS,
		Reliability: reliability,
	}
}

// IncrementPacketCounter bumps the monotonic per-path packet counter and
// returns the new value. Safe for concurrent callers.
func (p *Path) IncrementPacketCounter() uint64 {
	return atomic.AddUint64(&p.packetCount, 1)
}

// PacketCount reads the current packet counter without incrementing it.
func (p *Path) PacketCount() uint64 {
	return atomic.LoadUint64(&p.packetCount)
}
