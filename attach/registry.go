// Package attach implements the Attachment Registry (C5) and Attachment
// Policy (C6), per §4.5/§4.6. Grounded on topology.c's topology_attach/
// topology_detach and _topology_findAttachmentVertex, adapted to Go's
// sync.RWMutex-per-concern discipline the rest of this module follows.
package attach

import "sync"

// Registry maps attached IPs to vertex indices and remembers which vertices
// carry at least one attached host (the Dijkstra target set, §4.3 Case C).
// Guarded by virtualIPLock (§5).
type Registry struct {
	mu                sync.RWMutex
	virtualIP         map[uint32]int
	verticesWithHosts map[int]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		virtualIP:         make(map[uint32]int),
		verticesWithHosts: make(map[int]struct{}),
	}
}

// Lookup resolves ip to its attached vertex, if any (I6).
func (r *Registry) Lookup(ip uint32) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.virtualIP[ip]
	return v, ok
}

// Attach binds ip to vertex, replacing any existing binding for ip. Adding
// vertex to verticesWithHosts is idempotent (I6, I7).
func (r *Registry) Attach(ip uint32, vertex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.virtualIP[ip] = vertex
	r.verticesWithHosts[vertex] = struct{}{}
}

// Detach removes ip's binding from the virtualIP map only. The vertex it
// pointed at is deliberately left in verticesWithHosts: this matches the
// source's topology_detach, which never re-derives verticesWithHosts, so
// Dijkstra continues computing paths to a now-depopulated vertex until the
// topology is reloaded (§9.1). Preserved rather than "fixed".
func (r *Registry) Detach(ip uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.virtualIP, ip)
}

// VerticesWithHosts returns the current Dijkstra target set: every vertex
// that has ever had a host attached, per the §9.1 behaviour above.
func (r *Registry) VerticesWithHosts() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int, 0, len(r.verticesWithHosts))
	for v := range r.verticesWithHosts {
		out = append(out, v)
	}
	return out
}

// Count returns the number of currently-attached IPs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.virtualIP)
}
