package topology_test

import (
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticenet/topology/topology"
)

// testAddress is a minimal collab.Address backed by a dotted-quad string.
type testAddress struct{ ip string }

func (a testAddress) ToNetworkIP() uint32 {
	v4 := net.ParseIP(a.ip).To4()
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
}
func (a testAddress) ToHostIPString() string { return a.ip }

// testWorker records every minimum-time-jump notification it receives.
type testWorker struct{ jumps []float64 }

func (w *testWorker) UpdateMinTimeJump(ms float64) { w.jumps = append(w.jumps, ms) }

// testRandom always returns a fixed value, so every attachment in these
// tests is deterministic, including the city-hint one (§9.2).
type testRandom struct{ v float64 }

func (r testRandom) NextDouble() float64 { return r.v }

func mustLoad(t *testing.T, gml string, opts ...topology.Option) *topology.Engine {
	t.Helper()
	f := t.TempDir() + "/topo.gml"
	require.NoError(t, writeFile(f, gml))
	e, err := topology.New(f, opts...)
	require.NoError(t, err)
	return e
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// TestEngine_S1_TwoVertexCompleteDirectPolicy mirrors spec scenario S1.
func TestEngine_S1_TwoVertexCompleteDirectPolicy(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.1" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.2" ]
  edge [ source 1 target 1 latency "1 ms" packet_loss 0.0 ]
  edge [ source 2 target 2 latency "1 ms" packet_loss 0.0 ]
  edge [ source 1 target 2 latency "10 ms" packet_loss 0.02 ]
]`
	e := mustLoad(t, gml, topology.WithShortestPath(false), topology.WithRandom(testRandom{}))
	addrA, addrB := testAddress{"10.0.0.1"}, testAddress{"10.0.0.2"}
	resA := e.Attach(addrA, "10.0.0.1", "", "")
	resB := e.Attach(addrB, "10.0.0.2", "", "")
	require.NotEqual(t, resA.Vertex, resB.Vertex)

	lat, ok := e.Latency(addrA, addrB)
	require.True(t, ok)
	assert.Equal(t, 10.0, lat)
	rel, ok := e.Reliability(addrA, addrB)
	require.True(t, ok)
	assert.Equal(t, 0.98, rel)

	lat, ok = e.Latency(addrA, addrA)
	require.True(t, ok)
	assert.Equal(t, 1.0, lat)
	rel, ok = e.Reliability(addrA, addrA)
	require.True(t, ok)
	assert.Equal(t, 1.0, rel)
}

// TestEngine_S2_SelfPathWithoutSelfLoop mirrors spec scenario S2.
func TestEngine_S2_SelfPathWithoutSelfLoop(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.1" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.2" ]
  edge [ source 1 target 2 latency "5 ms" packet_loss 0.1 ]
]`
	e := mustLoad(t, gml, topology.WithRandom(testRandom{}))
	addrA := testAddress{"10.0.0.1"}
	e.Attach(addrA, "10.0.0.1", "", "")

	lat, ok := e.Latency(addrA, addrA)
	require.True(t, ok)
	assert.Equal(t, 10.0, lat)
	rel, ok := e.Reliability(addrA, addrA)
	require.True(t, ok)
	assert.InDelta(t, 0.81, rel, 1e-9)
}

// TestEngine_S3_ShortestBeatsDirect mirrors spec scenario S3.
func TestEngine_S3_ShortestBeatsDirect(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.1" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.2" ]
  node [ id 3 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.3" ]
  edge [ source 1 target 2 latency "100 ms" packet_loss 0.0 ]
  edge [ source 1 target 3 latency "10 ms" packet_loss 0.0 ]
  edge [ source 3 target 2 latency "10 ms" packet_loss 0.0 ]
]`
	e := mustLoad(t, gml, topology.WithRandom(testRandom{}))
	e.Attach(testAddress{"10.0.0.1"}, "10.0.0.1", "", "")
	e.Attach(testAddress{"10.0.0.2"}, "10.0.0.2", "", "")
	e.Attach(testAddress{"10.0.0.3"}, "10.0.0.3", "", "")

	lat, ok := e.Latency(testAddress{"10.0.0.1"}, testAddress{"10.0.0.2"})
	require.True(t, ok)
	assert.Equal(t, 20.0, lat)
}

// TestEngine_S4_DisconnectedGraphFailsLoad mirrors spec scenario S4.
func TestEngine_S4_DisconnectedGraphFailsLoad(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ]
  node [ id 3 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ]
  node [ id 4 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ]
  edge [ source 1 target 2 latency "1 ms" packet_loss 0.0 ]
  edge [ source 3 target 4 latency "1 ms" packet_loss 0.0 ]
]`
	f := t.TempDir() + "/topo.gml"
	require.NoError(t, writeFile(f, gml))
	_, err := topology.New(f)
	require.Error(t, err)
}

// TestEngine_S6_MinimumJumpCallback mirrors spec scenario S6: the worker is
// notified on the first store and again only once a strictly lower latency
// is subsequently cached.
func TestEngine_S6_MinimumJumpCallback(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.1" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.2" ]
  node [ id 3 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.3" ]
  node [ id 4 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.4" ]
  edge [ source 1 target 2 latency "7 ms" packet_loss 0.0 ]
  edge [ source 1 target 3 latency "20 ms" packet_loss 0.0 ]
  edge [ source 1 target 4 latency "3 ms" packet_loss 0.0 ]
]`
	w := &testWorker{}
	e := mustLoad(t, gml, topology.WithRandom(testRandom{}), topology.WithWorker(w))

	e.Attach(testAddress{"10.0.0.1"}, "10.0.0.1", "", "")
	e.Attach(testAddress{"10.0.0.2"}, "10.0.0.2", "", "")
	_, ok := e.Latency(testAddress{"10.0.0.1"}, testAddress{"10.0.0.2"})
	require.True(t, ok)
	assert.Equal(t, []float64{7}, w.jumps)

	e.Attach(testAddress{"10.0.0.3"}, "10.0.0.3", "", "")
	_, ok = e.Latency(testAddress{"10.0.0.1"}, testAddress{"10.0.0.3"})
	require.True(t, ok)
	assert.Equal(t, []float64{7}, w.jumps) // 20ms is not a new minimum

	e.Attach(testAddress{"10.0.0.4"}, "10.0.0.4", "", "")
	_, ok = e.Latency(testAddress{"10.0.0.1"}, testAddress{"10.0.0.4"})
	require.True(t, ok)
	assert.Equal(t, []float64{7, 3}, w.jumps)
}

// TestEngine_LookupFailureIsNonFatal covers the Lookup error kind: an
// unattached address returns (0, false) rather than an error or panic.
func TestEngine_LookupFailureIsNonFatal(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ]
  edge [ source 1 target 2 latency "1 ms" packet_loss 0.0 ]
]`
	e := mustLoad(t, gml, topology.WithRandom(testRandom{}))
	_, ok := e.Latency(testAddress{"10.9.9.9"}, testAddress{"10.9.9.8"})
	assert.False(t, ok)
	assert.False(t, e.IsRoutable(testAddress{"10.9.9.9"}, testAddress{"10.9.9.8"}))
}

// TestEngine_AttachRegistersRealAddressNotHint covers P7 in the realistic
// case a bare ipHint-equality test can hide: a host attaching with no IP
// hint at all (selected by city fallback) must still be reachable
// afterwards by its own collab.Address, because Attach registers
// address.ToNetworkIP(), never the hint used only for vertex selection.
func TestEngine_AttachRegistersRealAddressNotHint(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" city_code "NYC" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" city_code "NYC" ]
  edge [ source 1 target 2 latency "1 ms" packet_loss 0.0 ]
]`
	e := mustLoad(t, gml, topology.WithRandom(testRandom{v: 0}))
	host := testAddress{"192.168.1.50"}
	e.Attach(host, "", "nyc", "")

	v, ok := e.Lookup(host.ToNetworkIP())
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.True(t, e.IsRoutable(host, host))
}

// TestEngine_ShortestPathCountTracksDijkstraBatches covers §5's
// topologyLock-guarded derived statistics: ShortestPathCount increments
// once per Case C Dijkstra batch (not once per query, since a cache hit on
// a later query to the same source avoids a second run), while QueryCount
// increments on every served query including cache hits.
func TestEngine_ShortestPathCountTracksDijkstraBatches(t *testing.T) {
	gml := `
graph [
  directed 0
  node [ id 1 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.1" ]
  node [ id 2 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.2" ]
  node [ id 3 bandwidth_down "1 Mbit" bandwidth_up "1 Mbit" ip_address "10.0.0.3" ]
  edge [ source 1 target 2 latency "5 ms" packet_loss 0.0 ]
  edge [ source 2 target 3 latency "5 ms" packet_loss 0.0 ]
]`
	e := mustLoad(t, gml, topology.WithRandom(testRandom{}))
	e.Attach(testAddress{"10.0.0.1"}, "10.0.0.1", "", "")
	e.Attach(testAddress{"10.0.0.2"}, "10.0.0.2", "", "")
	e.Attach(testAddress{"10.0.0.3"}, "10.0.0.3", "", "")

	assert.Equal(t, uint64(0), e.ShortestPathCount())
	assert.Equal(t, uint64(0), e.QueryCount())

	_, ok := e.Latency(testAddress{"10.0.0.1"}, testAddress{"10.0.0.3"})
	require.True(t, ok)
	assert.Equal(t, uint64(1), e.ShortestPathCount())
	assert.Equal(t, uint64(1), e.QueryCount())

	// a second query from the same source hits the cache batch-populated
	// above: no new Dijkstra run, but the query counter still advances.
	_, ok = e.Latency(testAddress{"10.0.0.1"}, testAddress{"10.0.0.2"})
	require.True(t, ok)
	assert.Equal(t, uint64(1), e.ShortestPathCount())
	assert.Equal(t, uint64(2), e.QueryCount())
}
