package delaynet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLineDelayNetwork(t *testing.T, delayValue float64) *DelayNetwork {
	t.Helper()
	nodes, links := threeNodeLine()
	topo, err := NewTopology(nodes, links)
	require.NoError(t, err)
	routes := BuildRoutes(topo)

	dists := make(map[EdgeKey]*SizeBucketedEDist)
	for _, edge := range []EdgeKey{{Src: 0, Dst: 1}, {Src: 1, Dst: 0}, {Src: 1, Dst: 2}, {Src: 2, Dst: 1}} {
		d := NewEmptySizeBucketedEDist()
		require.NoError(t, d.Fill([]sizedSample{{Size: 500, Value: delayValue}}, DefaultBucketOpts()))
		dists[edge] = d
	}
	return NewDelayNetwork(topo, routes, dists)
}

func TestIdealFct_OneHopOnePacket(t *testing.T) {
	nodes := []Node{NewHost(0), NewHost(1)}
	links := []Link{NewLink(0, 1, BitsPerSecFromGbps(10), 1000)}
	topo, err := NewTopology(nodes, links)
	require.NoError(t, err)

	got := idealFctForPath(topo, []EdgeKey{{Src: 0, Dst: 1}}, 500)
	assert.Equal(t, Nanosecs(1438), got)
}

func TestIdealFct_TwoHopLine(t *testing.T) {
	dn := buildLineDelayNetwork(t, 0)
	rng := rand.New(rand.NewSource(1))
	got, ok := dn.IdealFct(500, 0, 2, rng)
	require.True(t, ok)
	assert.Equal(t, Nanosecs(2877), got)
}

func TestIdealFct_MonotonicInSize(t *testing.T) {
	dn := buildLineDelayNetwork(t, 0)
	rng := rand.New(rand.NewSource(1))
	small, ok := dn.IdealFct(500, 0, 2, rng)
	require.True(t, ok)
	large, ok := dn.IdealFct(2000, 0, 2, rng)
	require.True(t, ok)
	assert.Less(t, small, large)
}

func TestPredict_SumsPerHopSamples(t *testing.T) {
	dn := buildLineDelayNetwork(t, 100)
	rng := rand.New(rand.NewSource(1))
	got, ok := dn.Predict(500, 0, 2, rng)
	require.True(t, ok)
	assert.Equal(t, Nanosecs(200), got)
}

func TestPredict_MissingDistOnPathReturnsFalse(t *testing.T) {
	nodes, links := threeNodeLine()
	topo, err := NewTopology(nodes, links)
	require.NoError(t, err)
	routes := BuildRoutes(topo)

	d := NewEmptySizeBucketedEDist()
	require.NoError(t, d.Fill([]sizedSample{{Size: 500, Value: 10}}, DefaultBucketOpts()))
	// Only one of the two edges on the 0->2 path has a distribution.
	dists := map[EdgeKey]*SizeBucketedEDist{{Src: 0, Dst: 1}: d}
	dn := NewDelayNetwork(topo, routes, dists)

	rng := rand.New(rand.NewSource(1))
	_, ok := dn.Predict(500, 0, 2, rng)
	assert.False(t, ok)
}

func TestPredict_NoRouteReturnsFalse(t *testing.T) {
	// Two disconnected line segments: 0-1 and 2-3. No route exists from
	// host 0 to host 2.
	nodes := []Node{NewHost(0), NewSwitch(1), NewHost(2), NewSwitch(3)}
	links := []Link{
		NewLink(0, 1, BitsPerSecFromGbps(10), 0),
		NewLink(2, 3, BitsPerSecFromGbps(10), 0),
	}
	topo, err := NewTopology(nodes, links)
	require.NoError(t, err)
	routes := BuildRoutes(topo)
	dn := NewDelayNetwork(topo, routes, nil)

	rng := rand.New(rand.NewSource(1))
	_, ok := dn.Predict(500, 0, 2, rng)
	assert.False(t, ok)
}

func TestSlowdown_ConsistentWithIdealAndPredict(t *testing.T) {
	dn := buildLineDelayNetwork(t, 100)
	rng := rand.New(rand.NewSource(1))
	got, ok := dn.Slowdown(500, 0, 2, rng)
	require.True(t, ok)
	assert.InDelta(t, (2877.0+200.0)/2877.0, got, 1e-6)
}
