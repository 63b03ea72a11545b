// Package core owns the immutable-after-load weighted topology graph: a typed,
// attributed directed-or-undirected graph parsed from a GML topology file.
//
// Unlike a general-purpose graph library, core.Graph never mutates its vertex
// or edge catalog once NewFromGML returns successfully — the simulator loads
// a topology exactly once and queries it for the rest of its lifetime. The
// only moving part protected by a lock is the catalog itself, guarded by a
// single exclusive graphLock, matching the original topology engine's choice
// to wrap a non-thread-safe graph library behind one mutex rather than expose
// its internals to concurrent readers.
//
// Concurrency:
//
//   - graphLock (sync.Mutex) serializes every primitive access to the vertex
//     and edge catalog and the adjacency index. It is held across single
//     lookups only, never across a caller-visible callback.
//
// Determinism:
//   - Vertices are indexed 0..VertexCount()-1 in GML declaration order.
//   - Edges are indexed 0..EdgeCount()-1 in GML declaration order; all
//     enumeration (IncidentEdges) follows this edge-id order so that
//     algorithms built on top (self-path selection, shortest-path tie
//     breaking) are reproducible across runs given identical input.
package core
