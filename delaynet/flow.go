package delaynet

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/OneOfOne/xxhash"
)

// Flow is a single workload entry (§3).
type Flow struct {
	ID    FlowId
	Src   NodeId
	Dst   NodeId
	Size  Bytes
	Start Nanosecs
}

// FlowChannel is a BasicChannel plus the bookkeeping accumulated once flows
// have been assigned to it (§3).
type FlowChannel struct {
	BasicChannel
	NrBytes    Bytes
	NrAckBytes Bytes
	FlowSrcs   map[NodeId]struct{}
	FlowDsts   map[NodeId]struct{}
	FlowStart  Nanosecs
	FlowEnd    Nanosecs
	Flows      []FlowId // sorted by start ascending
}

func newFlowChannel(c BasicChannel) *FlowChannel {
	return &FlowChannel{
		BasicChannel: c,
		FlowSrcs:     make(map[NodeId]struct{}),
		FlowDsts:     make(map[NodeId]struct{}),
	}
}

// NrFlows returns the number of flows assigned to this channel.
func (fc *FlowChannel) NrFlows() int { return len(fc.Flows) }

// SimNetwork is a Network (topology + routes) with flows realized onto
// directed channels via ECMP hashing (§4.3). SimNetwork owns its own
// topology copy (the FlowChannels) and the authoritative FlowId → Flow map;
// channels reference flows by ID only.
type SimNetwork struct {
	Topology *Topology
	Routes   *HopTable
	chans    map[EdgeKey]*FlowChannel
	flows    map[FlowId]Flow
}

// Channel returns the FlowChannel for a directed edge, if it carries any
// flows (edges with zero flows have no FlowChannel, matching §4.4's "return
// None if the edge carries no flows").
func (sn *SimNetwork) Channel(key EdgeKey) (*FlowChannel, bool) {
	c, ok := sn.chans[key]
	return c, ok
}

// Flow looks up a flow by ID.
func (sn *SimNetwork) Flow(id FlowId) (Flow, bool) {
	f, ok := sn.flows[id]
	return f, ok
}

// EdgeIndices returns the set of directed edges with at least one assigned
// flow, in a deterministic order (sorted by src then dst).
func (sn *SimNetwork) EdgeIndices() []EdgeKey {
	keys := make([]EdgeKey, 0, len(sn.chans))
	for k := range sn.chans {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Src != keys[j].Src {
			return keys[i].Src < keys[j].Src
		}
		return keys[i].Dst < keys[j].Dst
	})
	return keys
}

// flowHash computes the fixed, platform-stable 64-bit hash H(f.id) used to
// pin a flow's ECMP path selection at every hop (§4.3). xxHash64 over the
// flow ID's decimal representation is used instead of hash/fnv (which this
// package uses elsewhere for RNG-subsystem derivation, see rng.go) because
// it serves an unrelated purpose: a fast, well-distributed hash for
// path-selection, not a seed derivation.
func flowHash(id FlowId) uint64 {
	h := xxhash.New64()
	_, _ = h.WriteString(strconv.Itoa(int(id)))
	return h.Sum64()
}

// realizePath walks from src to dst, selecting a next hop at each step with
// chooseIdx(k) given the number of available next-hop choices. It returns
// the ordered sequence of directed edges traversed.
func realizePath(routes *HopTable, src, dst NodeId, chooseIdx func(k int) int) ([]EdgeKey, error) {
	var path []EdgeKey
	cur := src
	for cur != dst {
		hops := routes.NextHops(cur, dst)
		if len(hops) == 0 {
			return nil, fmt.Errorf("delaynet: no route from %s to %s (invariant violation: should have been caught at spec validation)", cur, dst)
		}
		next := hops[chooseIdx(len(hops))]
		path = append(path, EdgeKey{Src: cur, Dst: next})
		cur = next
	}
	return path, nil
}

// hashedPath realizes a flow's path using its fixed hash reused at every
// hop (§4.3 step 2): "the same h is reused at every hop".
func hashedPath(routes *HopTable, f Flow) ([]EdgeKey, error) {
	h := flowHash(f.ID)
	return realizePath(routes, f.Src, f.Dst, func(k int) int { return int(h % uint64(k)) })
}

// firstChoicePath realizes a representative path always taking the first
// enumerated next hop at every ECMP branch, used when deriving a
// LinkSimDesc's synthetic non-bottleneck links (§4.4).
func firstChoicePath(routes *HopTable, src, dst NodeId) ([]EdgeKey, error) {
	return realizePath(routes, src, dst, func(int) int { return 0 })
}

// BuildSimNetwork assigns every flow to the directed edges of its realized
// ECMP path, producing a SimNetwork (§4.3). Panics with an invariant
// violation if a flow's (src, dst) has no route — spec validation (§4.10)
// is expected to have already excluded this case.
func BuildSimNetwork(topo *Topology, routes *HopTable, flows []Flow) *SimNetwork {
	type assignment struct {
		edge EdgeKey
		flow Flow
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(flows) && len(flows) > 0 {
		workers = len(flows)
	}
	if workers == 0 {
		workers = 1
	}

	perWorker := make([][]assignment, workers)
	errs := make([]error, workers)
	chunk := (len(flows) + workers - 1) / workers
	if chunk == 0 {
		chunk = 1
	}

	done := make(chan int, workers)
	active := 0
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(flows) {
			done <- w
			continue
		}
		hi := lo + chunk
		if hi > len(flows) {
			hi = len(flows)
		}
		active++
		go func(w, lo, hi int) {
			var local []assignment
			for _, f := range flows[lo:hi] {
				path, err := hashedPath(routes, f)
				if err != nil {
					errs[w] = err
					done <- w
					return
				}
				for _, edge := range path {
					local = append(local, assignment{edge: edge, flow: f})
				}
			}
			perWorker[w] = local
			done <- w
		}(w, lo, hi)
	}
	for i := 0; i < workers; i++ {
		<-done
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}

	byEdge := make(map[EdgeKey][]Flow)
	for _, local := range perWorker {
		for _, a := range local {
			byEdge[a.edge] = append(byEdge[a.edge], a.flow)
		}
	}

	chans := make(map[EdgeKey]*FlowChannel, len(byEdge))
	for edge, fs := range byEdge {
		base, ok := topo.Channel(edge.Src, edge.Dst)
		if !ok {
			panic(fmt.Sprintf("delaynet: assigned flow to nonexistent channel %s", edge))
		}
		sort.SliceStable(fs, func(i, j int) bool { return fs[i].Start < fs[j].Start })

		fc := newFlowChannel(base)
		for i, f := range fs {
			fc.Flows = append(fc.Flows, f.ID)
			fc.NrBytes += f.Size
			fc.NrAckBytes += AckBytesFor(f.Size)
			fc.FlowSrcs[f.Src] = struct{}{}
			fc.FlowDsts[f.Dst] = struct{}{}
			if i == 0 {
				fc.FlowStart = f.Start
				fc.FlowEnd = f.Start
			} else {
				if f.Start < fc.FlowStart {
					fc.FlowStart = f.Start
				}
				if f.Start > fc.FlowEnd {
					fc.FlowEnd = f.Start
				}
			}
		}
		chans[edge] = fc
	}

	flowsByID := make(map[FlowId]Flow, len(flows))
	for _, f := range flows {
		flowsByID[f.ID] = f
	}

	return &SimNetwork{
		Topology: topo,
		Routes:   routes,
		chans:    chans,
		flows:    flowsByID,
	}
}

// AckBytesFor returns the synthetic reverse-direction ACK traffic
// attributed to a flow of the given size (§4.3): ceil(size /
// max_packet_size) * ack_size.
func AckBytesFor(size Bytes) Bytes {
	return Bytes(size.CeilDiv(MaxPacketSize)) * AckSize
}
