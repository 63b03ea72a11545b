// File: cache.go
// Role: the two-level src -> dst -> Path cache and its admission algorithm,
// per §4.4. Grounded on topology.c's _topology_shouldStorePath (admission
// rule) and _topology_storePathInCache (insert + minimumPathLatency update),
// with the collaborator callback (updateMinTimeJump) fired after the lock is
// released, matching §5's ordering constraint.
package netpath

import "sync"

// Cache is the path cache guarded by pathCacheLock (§5). Reads take the
// shared lock; writes take it exclusively only long enough to admit or
// reject an entry and update minimumPathLatency — the caller-visible
// onNewMinimum callback always runs after the lock is released.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]map[int]*Path

	hasMin     bool
	minLatency float64
}

// NewCache returns an empty cache with minimumPathLatency == 0 (I5).
func NewCache() *Cache {
	return &Cache{entries: make(map[int]map[int]*Path)}
}

// Get returns the cached path for (s, d), or, if undirected is true, the
// mirror entry for (d, s) — at most one of the two ever exists (I4).
func (c *Cache) Get(s, d int, undirected bool) (*Path, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.lookupLocked(s, d); ok {
		return p, true
	}
	if undirected {
		if p, ok := c.lookupLocked(d, s); ok {
			return p, true
		}
	}
	return nil, false
}

func (c *Cache) lookupLocked(s, d int) (*Path, bool) {
	row, ok := c.entries[s]
	if !ok {
		return nil, false
	}
	p, ok := row[d]
	return p, ok
}

// MinimumLatency returns the minimum latency_ms over all cached paths, or 0
// if the cache is empty (I5).
func (c *Cache) MinimumLatency() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasMin {
		return 0
	}
	return c.minLatency
}

// Store runs the §4.4 admission algorithm and, if admitted, inserts the new
// Path and returns it. directEdgeExists reports whether a direct edge
// between s and d exists in the graph, needed for admission step 2.
// onNewMinimum is invoked, outside the cache lock, iff this store is the
// first admitted path or lowered minimumPathLatency — matching the
// source's requirement that
// updateMinTimeJump never run while pathCacheLock is held.
func (c *Cache) Store(isDirect bool, s, d int, latencyMS, reliability float64, useShortest bool, directEdgeExists func(s, d int) bool, onNewMinimum func(newMin float64)) (*Path, bool) {
	c.mu.Lock()
	// 1. Refuse if either direction is already present.
	if _, ok := c.lookupLocked(s, d); ok {
		c.mu.Unlock()
		return nil, false
	}
	if _, ok := c.lookupLocked(d, s); ok {
		c.mu.Unlock()
		return nil, false
	}
	// 2. A non-shortest policy only admits direct paths where the edge
	// exists; a caller passing is_direct=false while a direct edge is
	// present must let the direct-path call claim the slot instead.
	if !isDirect && !useShortest && directEdgeExists(s, d) {
		c.mu.Unlock()
		return nil, false
	}

	// 3. Admit.
	p := NewPath(isDirect, s, d, latencyMS, reliability)
	row, ok := c.entries[s]
	if !ok {
		row = make(map[int]*Path)
		c.entries[s] = row
	}
	row[d] = p

	newMin := !c.hasMin || latencyMS < c.minLatency
	if newMin {
		c.hasMin = true
		c.minLatency = latencyMS
	}
	reportedMin := c.minLatency
	c.mu.Unlock()

	if newMin && onNewMinimum != nil {
		onNewMinimum(reportedMin)
	}
	return p, true
}

// All returns every cached Path, for the shutdown-time debug log (§6.3). Order
// is unspecified.
func (c *Cache) All() []*Path {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Path
	for _, row := range c.entries {
		for _, p := range row {
			out = append(out, p)
		}
	}
	return out
}

// Len reports the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, row := range c.entries {
		n += len(row)
	}
	return n
}
