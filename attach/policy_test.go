package attach_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticenet/topology/attach"
	"github.com/latticenet/topology/validate"
)

// fixedRandom always returns the configured value, for deterministic
// attachment-policy tests (§9.2 recommends this for any RNG-dependent test).
type fixedRandom struct{ v float64 }

func (f fixedRandom) NextDouble() float64 { return f.v }

// testAddress is a minimal collab.Address fixture, deliberately distinct
// from any vertex's declared ip_address or hint: Attach must register this
// address, not the hint or the chosen vertex's own attribute.
type testAddress struct{ ip string }

func (a testAddress) ToNetworkIP() uint32 {
	v4 := net.ParseIP(a.ip).To4()
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
}
func (a testAddress) ToHostIPString() string { return a.ip }

func tenVertexFixture() []validate.VertexAttrs {
	attrs := make([]validate.VertexAttrs, 10)
	for i := range attrs {
		attrs[i] = validate.VertexAttrs{ID: i, BandwidthDownKB: 100, BandwidthUpKB: 100}
	}
	// three NYC vertices, one of which has the exact-match IP
	attrs[1].CityCode, attrs[1].CountryCode = "NYC", "US"
	attrs[2].CityCode, attrs[2].CountryCode = "NYC", "US"
	attrs[3].CityCode, attrs[3].CountryCode = "NYC", "US"
	attrs[3].IPAddress = "10.0.0.5"
	return attrs
}

// TestPolicy_ExactIPMatchWinsOverCityHint covers P8/S5: an exact IP hint
// returns that vertex even though a city hint also matches several vertices.
func TestPolicy_ExactIPMatchWinsOverCityHint(t *testing.T) {
	p := attach.NewPolicy()
	reg := attach.NewRegistry()
	attrs := tenVertexFixture()

	res := p.Attach(testAddress{"10.9.9.9"}, reg, fixedRandom{v: 0}, attrs, "10.0.0.5", "nyc", "")
	assert.Equal(t, 3, res.Vertex)
}

// TestPolicy_CityNarrowsBeforeAll covers step 3's queue-narrowing order when
// no ip hint is usable.
func TestPolicy_CityNarrowsBeforeAll(t *testing.T) {
	p := attach.NewPolicy()
	reg := attach.NewRegistry()
	attrs := tenVertexFixture()

	// round(0 * (n-1)) == 0 -> head of the chosen queue.
	res := p.Attach(testAddress{"10.9.9.9"}, reg, fixedRandom{v: 0}, attrs, "", "nyc", "")
	assert.Contains(t, []int{1, 2, 3}, res.Vertex)
}

// TestPolicy_FallsBackToAllWhenNoHintsMatch covers the C_all fallback.
func TestPolicy_FallsBackToAllWhenNoHintsMatch(t *testing.T) {
	p := attach.NewPolicy()
	reg := attach.NewRegistry()
	attrs := tenVertexFixture()

	res := p.Attach(testAddress{"10.9.9.9"}, reg, fixedRandom{v: 0}, attrs, "", "tokyo", "jp")
	assert.Equal(t, 0, res.Vertex)
}

// TestPolicy_AttachRegistersVertexInRegistry ensures a successful Attach
// call records the vertex so subsequent lookups/Dijkstra target sets see it.
func TestPolicy_AttachRegistersVertexInRegistry(t *testing.T) {
	p := attach.NewPolicy()
	reg := attach.NewRegistry()
	attrs := tenVertexFixture()

	res := p.Attach(testAddress{"10.9.9.9"}, reg, fixedRandom{v: 0}, attrs, "10.0.0.5", "", "")
	require.Contains(t, reg.VerticesWithHosts(), res.Vertex)
}

// TestPolicy_AttachRegistersCallersAddressNotTheHint covers the fix for
// topology_attach's nodeIP/ipAddressHint separation: the hint (here, the
// chosen vertex's own declared ip_address) only steers selection, never what
// gets stored in the registry. A later Lookup must resolve by the caller's
// real address, not by the hint or the vertex's static attribute.
func TestPolicy_AttachRegistersCallersAddressNotTheHint(t *testing.T) {
	p := attach.NewPolicy()
	reg := attach.NewRegistry()
	attrs := tenVertexFixture()

	caller := testAddress{"203.0.113.7"}
	res := p.Attach(caller, reg, fixedRandom{v: 0}, attrs, "10.0.0.5", "", "")
	assert.Equal(t, 3, res.Vertex)

	v, ok := reg.Lookup(caller.ToNetworkIP())
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, hintStillUnbound := reg.Lookup(0x0A000005) // 10.0.0.5, the hint/attribute IP
	assert.False(t, hintStillUnbound)
}
