// File: policy.go
// Role: the Attachment Policy (C6), per §4.6. Grounded on topology.c's
// _topology_findAttachmentVertex / _topology_findAttachmentVertexHelperHook /
// _topology_getLongestPrefixMatch.
package attach

import (
	"math"
	"math/bits"
	"net"
	"strings"

	"github.com/latticenet/topology/collab"
	"github.com/latticenet/topology/validate"
)

// candidate is one vertex under consideration by the policy, carrying just
// the attributes the algorithm needs.
type candidate struct {
	vertex int
	attrs  validate.VertexAttrs
}

// ipToUint32 converts a dotted-quad IPv4 string to its big-endian uint32
// form, matching Address.ToNetworkIP's wire representation.
func ipToUint32(s string) (uint32, bool) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, false
	}
	v4 := ip.To4()
	if v4 == nil {
		return 0, false
	}
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3]), true
}

// Policy implements the multi-tier filter → fallback → match-or-random
// selection algorithm. It holds no state of its own; every call is
// independent given the graph, registry, and hints.
type Policy struct{}

// NewPolicy returns a Policy. It is stateless and safe for concurrent use.
func NewPolicy() *Policy { return &Policy{} }

// Result is what Attach returns: the chosen vertex plus its declared
// bandwidths, per §4.6 step 6.
type Result struct {
	Vertex          int
	BandwidthDownKB float64
	BandwidthUpKB   float64
}

// Attach selects one vertex for a newly-attaching host, per §4.6, and
// records address's own network IP against it in registry, per §4.5.
// ipHint/cityHint/countryHint only steer vertex *selection* (§4.6 steps
// 1-5); they are never what gets registered. This mirrors
// topology_attach's separation of `nodeIP := address_toNetworkIP(address)`
// (always the thing stored into virtualIP) from `ipAddressHint` (used only
// by _topology_findAttachmentVertex to pick the vertex).
func (p *Policy) Attach(address collab.Address, registry *Registry, rng collab.Random, attrsByVertex []validate.VertexAttrs, ipHint, cityHint, countryHint string) Result {
	v := p.selectVertex(attrsByVertex, rng, ipHint, cityHint, countryHint)
	va := attrsByVertex[v]

	registry.Attach(address.ToNetworkIP(), v)

	return Result{Vertex: v, BandwidthDownKB: va.BandwidthDownKB, BandwidthUpKB: va.BandwidthUpKB}
}

func (p *Policy) selectVertex(attrsByVertex []validate.VertexAttrs, rng collab.Random, ipHint, cityHint, countryHint string) int {
	hintIP, hintIPValid := ipToUint32(ipHint)
	hintUsable := ipHint != "" && validate.IsUsableIP(ipHint)

	var cAll, cCity, cCountry []candidate
	exactMatch := false

	// 1-2. Single forward pass building the three queues, honoring the
	// exact-IP-match short-circuit: once found, every prior queue content is
	// discarded and only further exact matches (in practice, none) are kept.
	for v, va := range attrsByVertex {
		cand := candidate{vertex: v, attrs: va}

		if hintUsable && va.IPAddress != "" && va.IPAddress == ipHint {
			if !exactMatch {
				exactMatch = true
				cAll, cCity, cCountry = nil, nil, nil
			}
			cAll = append(cAll, cand)
			continue
		}
		if exactMatch {
			continue
		}

		cAll = append(cAll, cand)
		if cityHint != "" && strings.EqualFold(va.CityCode, cityHint) {
			cCity = append(cCity, cand)
		}
		if countryHint != "" && strings.EqualFold(va.CountryCode, countryHint) {
			cCountry = append(cCountry, cand)
		}
	}

	// 3. Narrowest non-empty queue wins: city, then country, then all.
	chosen := cAll
	switch {
	case len(cCity) > 0:
		chosen = cCity
	case len(cCountry) > 0:
		chosen = cCountry
	}

	// 4. Longest matching-bit-count against ipHint, if one was given and no
	// exact match already resolved it.
	if !exactMatch && hintIPValid && usableCount(chosen) > 0 {
		return longestPrefixMatch(chosen, hintIP)
	}

	// 5. Otherwise, uniform-ish random pick via pop-head RNG bias (§9.2):
	// round(random() * (n-1)) then pop that many heads off the queue and
	// return the next one — equivalent to direct indexing, but it is the
	// full queue (not just usable-IP members) being indexed into, which is
	// the source of the documented bias.
	return popHeadSelect(chosen, rng)
}

func usableCount(cands []candidate) int {
	n := 0
	for _, c := range cands {
		if c.attrs.IPAddress != "" {
			n++
		}
	}
	return n
}

// longestPrefixMatch picks the candidate whose IP maximises
// popcount(^(ip ^ hint)) — the count of matching bits, not a true
// longest-common-prefix by bit position (§9.3). First-seen wins ties.
func longestPrefixMatch(cands []candidate, hint uint32) int {
	best := -1
	bestScore := -1
	for _, c := range cands {
		ip, ok := ipToUint32(c.attrs.IPAddress)
		if !ok {
			continue
		}
		score := bits.OnesCount32(^(ip ^ hint))
		if score > bestScore {
			bestScore = score
			best = c.vertex
		}
	}
	if best == -1 {
		// no usable IP after all; fall through to the first candidate.
		return cands[0].vertex
	}
	return best
}

// popHeadSelect implements §9.2's pop-head selection loop.
func popHeadSelect(cands []candidate, rng collab.Random) int {
	n := len(cands)
	if n == 0 {
		return 0
	}
	idx := int(math.Round(rng.NextDouble() * float64(n-1)))
	queue := cands
	for i := 0; i < idx; i++ {
		queue = queue[1:]
	}
	return queue[0].vertex
}
