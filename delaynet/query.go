package delaynet

import (
	"math"
	"math/rand"
)

// DelayNetwork is a topology annotated with a size-bucketed empirical delay
// distribution per directed edge, built by an orchestrator run (§4.6) and
// queried by Predict/IdealFct/Slowdown (§4.8).
type DelayNetwork struct {
	Topology *Topology
	Routes   *HopTable
	dists    map[EdgeKey]*SizeBucketedEDist
}

// NewDelayNetwork constructs a DelayNetwork from a topology, its routing
// table, and the per-edge distributions an orchestrator run produced. Edges
// absent from dists are treated as having no distribution (queries crossing
// them return false, per §4.8 step 3).
func NewDelayNetwork(topo *Topology, routes *HopTable, dists map[EdgeKey]*SizeBucketedEDist) *DelayNetwork {
	if dists == nil {
		dists = make(map[EdgeKey]*SizeBucketedEDist)
	}
	return &DelayNetwork{Topology: topo, Routes: routes, dists: dists}
}

// Dist returns the size-bucketed distribution for a directed edge, if any.
func (dn *DelayNetwork) Dist(edge EdgeKey) (*SizeBucketedEDist, bool) {
	d, ok := dn.dists[edge]
	return d, ok
}

// Predict returns a sampled point estimate of delay above ideal for a
// hypothetical flow of the given size from src to dst (§4.8): the query
// engine re-randomizes ECMP path choice on every call using rng, since it
// is reasoning about a flow that was never actually simulated.
func (dn *DelayNetwork) Predict(size Bytes, src, dst NodeId, rng *rand.Rand) (Nanosecs, bool) {
	path, ok := realizeRandomPath(dn.Routes, src, dst, rng)
	if !ok {
		return 0, false
	}
	return dn.predictOnPath(path, size, rng)
}

// IdealFct returns the closed-form, no-queueing FCT for a hypothetical flow
// (§4.8): realizes a path the same way Predict does, then sums
// serialization and propagation delay along it.
func (dn *DelayNetwork) IdealFct(size Bytes, src, dst NodeId, rng *rand.Rand) (Nanosecs, bool) {
	path, ok := realizeRandomPath(dn.Routes, src, dst, rng)
	if !ok {
		return 0, false
	}
	return idealFctForPath(dn.Topology, path, size), true
}

// Slowdown returns measured-FCT / ideal-FCT for a hypothetical flow (§4.8):
// (ideal_fct + sampled_delay) / ideal_fct, computed over a single shared
// path realization so the two terms are consistent with each other.
func (dn *DelayNetwork) Slowdown(size Bytes, src, dst NodeId, rng *rand.Rand) (float64, bool) {
	path, ok := realizeRandomPath(dn.Routes, src, dst, rng)
	if !ok {
		return 0, false
	}
	ideal := idealFctForPath(dn.Topology, path, size)
	if ideal == 0 {
		return 0, false
	}
	delay, ok := dn.predictOnPath(path, size, rng)
	if !ok {
		return 0, false
	}
	return float64(ideal+delay) / float64(ideal), true
}

// realizeRandomPath walks from src to dst choosing uniformly at random
// among next-hop choices at every ECMP branch (§4.8 step 1).
func realizeRandomPath(routes *HopTable, src, dst NodeId, rng *rand.Rand) ([]EdgeKey, bool) {
	if !routes.HasRoute(src, dst) && src != dst {
		return nil, false
	}
	path, err := realizePath(routes, src, dst, func(k int) int { return rng.Intn(k) })
	if err != nil {
		return nil, false
	}
	return path, true
}

// predictOnPath samples one packet-normalized delay from each edge's
// distribution for size and sums them, scaling by the flow's packet count
// (§4.8 steps 3-5). Returns false if any edge on the path has no bucket
// covering size.
func (dn *DelayNetwork) predictOnPath(path []EdgeKey, size Bytes, rng *rand.Rand) (Nanosecs, bool) {
	var total float64
	for _, e := range path {
		dist, ok := dn.dists[e]
		if !ok {
			return 0, false
		}
		edist, ok := dist.ForSize(size)
		if !ok {
			return 0, false
		}
		total += edist.Sample(rng)
	}
	packets := size.CeilDiv(MaxPacketSize)
	if packets == 0 {
		packets = 1
	}
	return Nanosecs(math.Round(total * float64(packets))), true
}

// idealFctForPath computes the closed-form ideal FCT (§4.8): serialization
// of the first packet across every hop, plus serialization of any
// remaining packets at the path's minimum-bandwidth hop, plus the sum of
// propagation delays. An empty path (src == dst) has zero FCT.
func idealFctForPath(topo *Topology, path []EdgeKey, size Bytes) Nanosecs {
	if len(path) == 0 {
		return 0
	}

	totalPackets := size.CeilDiv(MaxPacketSize)
	if totalPackets == 0 {
		totalPackets = 1
	}
	packetBits := func(i uint64) float64 {
		payload := MaxPacketSize
		consumed := int64(i) * int64(MaxPacketSize)
		remaining := int64(size) - consumed
		if remaining < int64(MaxPacketSize) {
			payload = Bytes(remaining)
		}
		return float64(payload+PacketHeaderSize) * 8
	}

	var firstPacketSeconds float64
	var propDelay Nanosecs
	var minBw BitsPerSec
	for i, e := range path {
		c, ok := topo.Channel(e.Src, e.Dst)
		if !ok {
			continue
		}
		firstPacketSeconds += packetBits(0) / float64(c.Bandwidth)
		propDelay += c.Delay
		if i == 0 || c.Bandwidth < minBw {
			minBw = c.Bandwidth
		}
	}

	var remainingSeconds float64
	if minBw > 0 {
		for i := uint64(1); i < totalPackets; i++ {
			remainingSeconds += packetBits(i) / float64(minBw)
		}
	}

	totalNs := (firstPacketSeconds + remainingSeconds) * 1e9
	return Nanosecs(math.Round(totalNs)) + propDelay
}
