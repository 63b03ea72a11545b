// Package topology is the root routing engine (C3 orchestration): it loads a
// GML graph, validates it, and answers concurrent latency/reliability
// queries with a two-level cache, backed by the core/validate/pathfind/
// netpath/attach packages.
//
// Concurrency: the engine enforces the declared lock order graphLock >
// edgeWeightsLock > virtualIPLock > pathCacheLock > topologyLock (§5).
// core.Graph owns graphLock internally; Engine owns the rest:
//
//   - edgeWeightsLock (sync.RWMutex): guards the per-edge latency weight
//     slice. A Dijkstra run takes it shared for each single weight read, not
//     for the whole run, and never together with graphLock. New fills the
//     slice before the Engine is returned and the slice is never rebuilt,
//     so the lock is never taken exclusively.
//   - virtualIPLock: owned by attach.Registry.
//   - pathCacheLock: owned by netpath.Cache.
//   - topologyLock (sync.Mutex): guards derived statistics — shortestPathCount
//     and the cumulative query counter — that don't belong to any single
//     lower layer.
//
// Logging follows the teacher corpus's logrus convention: one trace-level
// record per query, one debug-level record per cached path at shutdown, one
// error-level record naming the violated invariant on validation failure
// (§6.3).
package topology
