// File: attributes.go
// Role: resolves each canonical vertex/edge attribute (§6.2) by
// case-insensitive prefix match, then checks its type, then its range;
// declared keys outside the canonical set are not examined. Grounded
// on the source's _topology_checkGraphAttributes/_topology_isValidVertexAttributeKey.
package validate

import (
	"fmt"
	"net"

	"github.com/latticenet/topology/core"
	"github.com/latticenet/topology/topoerr"
	"github.com/latticenet/topology/units"
)

// VertexAttrs holds the parsed, typed attributes of one vertex, resolved
// from its raw GML fields by Attributes.
type VertexAttrs struct {
	ID              int
	BandwidthDownKB float64 // KiB/s
	BandwidthUpKB   float64 // KiB/s
	IPAddress       string  // "" if absent or not usable
	CityCode        string
	CountryCode     string
	Label           string
}

// EdgeAttrs holds the parsed, typed attributes of one edge.
type EdgeAttrs struct {
	LatencyMS  float64
	PacketLoss float64
	JitterMS   float64 // 0 if absent
	HasJitter  bool
	Label      string
}

// unusable IPs per §3's definition of "usable IP".
var unusableIPs = map[string]bool{
	"0.0.0.0":         true,
	"127.0.0.1":       true,
	"255.255.255.255": true,
}

// IsUsableIP reports whether s parses as an IPv4 address and is not one of
// the three reserved addresses the attachment policy must ignore.
func IsUsableIP(s string) bool {
	if s == "" || unusableIPs[s] {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// VertexAttributes resolves and validates vertex v's declared attributes
// against the canonical schema. Required: id (numeric, integral), bandwidth_down
// and bandwidth_up (string, parse to > 0 KiB/s). Optional: ip_address,
// city_code, country_code, label (all string).
func VertexAttributes(g *core.Graph, v int) (VertexAttrs, error) {
	var out VertexAttrs

	idKey, idVal, ok := g.VertexAttrByPrefix(v, "id")
	if !ok {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: vertex %d has no %q attribute", topoerr.ErrMissingAttribute, v, "id"))
	}
	if idVal.Kind != core.AttrNumeric {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: vertex %d attribute %q must be numeric", topoerr.ErrAttributeWrongType, v, idKey))
	}
	if idVal.Number != float64(int64(idVal.Number)) {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: vertex %d attribute %q must be an integer", topoerr.ErrAttributeOutOfRange, v, idKey))
	}
	out.ID = int(idVal.Number)

	bwDown, err := requiredBandwidth(g, v, "bandwidth_down")
	if err != nil {
		return out, err
	}
	out.BandwidthDownKB = bwDown

	bwUp, err := requiredBandwidth(g, v, "bandwidth_up")
	if err != nil {
		return out, err
	}
	out.BandwidthUpKB = bwUp

	if _, val, ok := g.VertexAttrByPrefix(v, "ip_address"); ok {
		if val.Kind != core.AttrString {
			return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: vertex %d attribute %q must be a string", topoerr.ErrAttributeWrongType, v, "ip_address"))
		}
		if IsUsableIP(val.Str) {
			out.IPAddress = val.Str
		}
	}
	if _, val, ok := g.VertexAttrByPrefix(v, "city_code"); ok && val.Kind == core.AttrString {
		out.CityCode = val.Str
	}
	if _, val, ok := g.VertexAttrByPrefix(v, "country_code"); ok && val.Kind == core.AttrString {
		out.CountryCode = val.Str
	}
	if _, val, ok := g.VertexAttrByPrefix(v, "label"); ok && val.Kind == core.AttrString {
		out.Label = val.Str
	}

	return out, nil
}

func requiredBandwidth(g *core.Graph, v int, name string) (float64, error) {
	key, val, ok := g.VertexAttrByPrefix(v, name)
	if !ok {
		return 0, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: vertex %d has no %q attribute", topoerr.ErrMissingAttribute, v, name))
	}
	if val.Kind != core.AttrString {
		return 0, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: vertex %d attribute %q must be a string", topoerr.ErrAttributeWrongType, v, key))
	}
	bitsPerSec, err := units.ParseBandwidthBitsPerSecond(val.Str)
	if err != nil {
		return 0, topoerr.New(topoerr.KindAttribute, fmt.Errorf("vertex %d attribute %q: %w", v, key, err))
	}
	kib := bitsPerSec / 8192.0
	if kib <= 0 {
		return 0, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: vertex %d attribute %q must be > 0, got %g KiB/s", topoerr.ErrAttributeOutOfRange, v, key, kib))
	}
	return kib, nil
}

// EdgeAttributes resolves and validates edge e's declared attributes.
// Required: latency (string, parses to > 0 ms), packet_loss (numeric in
// [0,1]). Optional: jitter (string, parses to >= 0 ms), label (string).
func EdgeAttributes(g *core.Graph, e int) (EdgeAttrs, error) {
	var out EdgeAttrs

	latKey, latVal, ok := g.EdgeAttrByPrefix(e, "latency")
	if !ok {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d has no %q attribute", topoerr.ErrMissingAttribute, e, "latency"))
	}
	if latVal.Kind != core.AttrString {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d attribute %q must be a string", topoerr.ErrAttributeWrongType, e, latKey))
	}
	latNS, err := units.ParseDurationNanoseconds(latVal.Str)
	if err != nil {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("edge %d attribute %q: %w", e, latKey, err))
	}
	latMS := latNS / 1_000_000.0
	if latMS <= 0 {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d attribute %q must be > 0, got %g ms", topoerr.ErrAttributeOutOfRange, e, latKey, latMS))
	}
	out.LatencyMS = latMS

	lossKey, lossVal, ok := g.EdgeAttrByPrefix(e, "packet_loss")
	if !ok {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d has no %q attribute", topoerr.ErrMissingAttribute, e, "packet_loss"))
	}
	if lossVal.Kind != core.AttrNumeric {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d attribute %q must be numeric", topoerr.ErrAttributeWrongType, e, lossKey))
	}
	if lossVal.Number < 0.0 || lossVal.Number > 1.0 {
		return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d attribute %q must be in [0,1], got %g", topoerr.ErrAttributeOutOfRange, e, lossKey, lossVal.Number))
	}
	out.PacketLoss = lossVal.Number

	if jitKey, jitVal, ok := g.EdgeAttrByPrefix(e, "jitter"); ok {
		if jitVal.Kind != core.AttrString {
			return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d attribute %q must be a string", topoerr.ErrAttributeWrongType, e, jitKey))
		}
		jitNS, err := units.ParseDurationNanoseconds(jitVal.Str)
		if err != nil {
			return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("edge %d attribute %q: %w", e, jitKey, err))
		}
		jitMS := jitNS / 1_000_000.0
		if jitMS < 0 {
			return out, topoerr.New(topoerr.KindAttribute, fmt.Errorf("%w: edge %d attribute %q must be >= 0, got %g ms", topoerr.ErrAttributeOutOfRange, e, jitKey, jitMS))
		}
		out.JitterMS = jitMS
		out.HasJitter = true
	}
	if _, val, ok := g.EdgeAttrByPrefix(e, "label"); ok && val.Kind == core.AttrString {
		out.Label = val.Str
	}

	return out, nil
}

// AllAttributes validates every vertex and edge in g, returning the parsed
// attributes indexed by vertex/edge id, or the first error encountered.
func AllAttributes(g *core.Graph) ([]VertexAttrs, []EdgeAttrs, error) {
	vs := make([]VertexAttrs, g.VertexCount())
	for _, v := range g.AllVertexIndices() {
		va, err := VertexAttributes(g, v)
		if err != nil {
			return nil, nil, err
		}
		vs[v] = va
	}
	es := make([]EdgeAttrs, g.EdgeCount())
	for _, e := range g.AllEdgeIndices() {
		ea, err := EdgeAttributes(g, e)
		if err != nil {
			return nil, nil, err
		}
		es[e] = ea
	}
	return vs, es, nil
}
