// Package linksim provides link-level simulator implementations satisfying
// the delaynet.LinkSim interface. These are reference implementations, not
// the full fluid/packet-level models a production deployment would plug
// in — the core only depends on the interface (see delaynet.LinkSim).
package linksim

import (
	"math"
	"sort"

	"github.com/delaynet/delaynet"
)

func init() {
	delaynet.RegisterLinkSim(FIFOName, newFIFO)
}

// FIFOName is the registered name of the FIFO reference simulator.
const FIFOName = "fifo"

// FIFO is a simplified single-queue fluid model of a bottleneck link: flows
// are served in start-time order at the bottleneck's available bandwidth,
// with source/destination synthetic links contributing only propagation
// delay. It is a reference stand-in for the packet-level and
// congestion-control-aware simulators that a full deployment would use.
type FIFO struct{}

func newFIFO(_ []byte) (delaynet.LinkSim, error) { return FIFO{}, nil }

// Name implements delaynet.LinkSim.
func (FIFO) Name() string { return FIFOName }

// Simulate implements delaynet.LinkSim.
func (FIFO) Simulate(spec *delaynet.LinkSimSpec) ([]delaynet.FctRecord, error) {
	if spec.Bottleneck.AvailableBandwidth == 0 {
		return nil, &delaynet.LinkSimError{Name: FIFOName, Reason: "bottleneck has zero available bandwidth"}
	}

	flows := make([]delaynet.Flow, len(spec.Flows))
	copy(flows, spec.Flows)
	sort.SliceStable(flows, func(i, j int) bool { return flows[i].Start < flows[j].Start })

	srcLinks := make(map[delaynet.NodeId]delaynet.LinkSimLink)
	dstLinks := make(map[delaynet.NodeId]delaynet.LinkSimLink)
	for _, l := range spec.OtherLinks {
		if l.To == spec.Bottleneck.From {
			srcLinks[l.From] = l
		}
		if l.From == spec.Bottleneck.To {
			dstLinks[l.To] = l
		}
	}

	records := make([]delaynet.FctRecord, 0, len(flows))
	var queueFreeAt float64 // ns, bottleneck availability horizon

	for _, f := range flows {
		srcDelay, srcBw := linkOrBottleneck(srcLinks[f.Src], spec.Bottleneck, true)
		dstDelay, _ := linkOrBottleneck(dstLinks[f.Dst], spec.Bottleneck, false)

		arrival := float64(f.Start) + float64(srcDelay)
		serviceStart := math.Max(arrival, queueFreeAt)
		serviceDuration := serializationNs(f.Size, spec.Bottleneck.AvailableBandwidth)
		completion := serviceStart + serviceDuration
		queueFreeAt = completion

		fct := delaynet.Nanosecs(math.Round(completion+float64(dstDelay))) - f.Start

		ideal := idealFromLinks(spec.Bottleneck, srcBw, srcDelay, dstDelay, f.Size)
		records = append(records, delaynet.FctRecord{Size: f.Size, Fct: fct, Ideal: ideal})
	}

	return records, nil
}

// linkOrBottleneck returns a synthetic link's delay/bandwidth, or the
// bottleneck's own when the flow's endpoint coincides with the bottleneck
// endpoint (no separate source/destination link was generated, §4.4: "the
// bottleneck is a host→ToR up-link").
func linkOrBottleneck(l delaynet.LinkSimLink, bottleneck delaynet.LinkSimLink, isSource bool) (delaynet.Nanosecs, delaynet.BitsPerSec) {
	if l.TotalBandwidth == 0 && l.Delay == 0 {
		if isSource {
			return 0, bottleneck.TotalBandwidth
		}
		return 0, 0
	}
	return l.Delay, l.TotalBandwidth
}

// serializationNs returns the time, in nanoseconds, to transmit size at
// bandwidth bits/sec.
func serializationNs(size delaynet.Bytes, bandwidth delaynet.BitsPerSec) float64 {
	if bandwidth == 0 {
		return 0
	}
	bits := float64(size+delaynet.PacketHeaderSize) * 8
	return bits / float64(bandwidth) * 1e9
}

// idealFromLinks computes a no-queueing FCT across the (source link,
// bottleneck, destination link) sub-path, mirroring
// delaynet's topology-level ideal_fct closed form (§4.8) but over this
// link simulator's own 3-hop sub-topology.
func idealFromLinks(bottleneck delaynet.LinkSimLink, srcBw delaynet.BitsPerSec, srcDelay, dstDelay delaynet.Nanosecs, size delaynet.Bytes) delaynet.Nanosecs {
	bandwidths := []delaynet.BitsPerSec{bottleneck.TotalBandwidth}
	if srcBw > 0 {
		bandwidths = append(bandwidths, srcBw)
	}
	minBw := bandwidths[0]
	var firstPacketSeconds float64
	payload := size
	if payload > delaynet.MaxPacketSize {
		payload = delaynet.MaxPacketSize
	}
	firstPacketBits := float64(payload+delaynet.PacketHeaderSize) * 8
	for _, bw := range bandwidths {
		if bw < minBw {
			minBw = bw
		}
		if bw > 0 {
			firstPacketSeconds += firstPacketBits / float64(bw)
		}
	}

	totalPackets := size.CeilDiv(delaynet.MaxPacketSize)
	if totalPackets == 0 {
		totalPackets = 1
	}
	var remainingSeconds float64
	if minBw > 0 {
		for i := uint64(1); i < totalPackets; i++ {
			consumed := delaynet.Bytes(i) * delaynet.MaxPacketSize
			remain := size - consumed
			if remain > delaynet.MaxPacketSize {
				remain = delaynet.MaxPacketSize
			}
			bits := float64(remain+delaynet.PacketHeaderSize) * 8
			remainingSeconds += bits / float64(minBw)
		}
	}

	totalNs := (firstPacketSeconds + remainingSeconds) * 1e9
	return delaynet.Nanosecs(math.Round(totalNs)) + srcDelay + dstDelay + bottleneck.Delay
}
