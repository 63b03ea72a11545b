// Package pathfind computes weighted shortest paths over a core.Graph:
// the same lazy-decrease-key heap strategy and upfront negative-weight
// scan as a classic single-source Dijkstra, re-keyed from string vertex
// IDs to the integer vertex indices core.Graph works in, and generalized
// from single-target to the multi-target, single-invocation form §4.3
// Case C requires (one Dijkstra run produces every destination's path at
// once, rather than one run per query).
//
// Complexity: Time O((V+E) log V), Space O(V+E).
package pathfind
