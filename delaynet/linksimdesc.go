package delaynet

import "fmt"

// LinkRole classifies a node's part in a LinkSimDesc's bottleneck-centric
// sub-topology (§4.4, §6.3).
type LinkRole int

const (
	RoleSwitch LinkRole = iota
	RoleSource
	RoleDestination
)

func (r LinkRole) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleDestination:
		return "destination"
	default:
		return "switch"
	}
}

// LinkSimNode is one node of a LinkSimDesc's sub-topology (§6.3).
type LinkSimNode struct {
	ID   NodeId
	Role LinkRole
}

// LinkSimLink is one directed, bandwidth/delay-summarized link of a
// LinkSimDesc's sub-topology (§6.3).
type LinkSimLink struct {
	From, To           NodeId
	TotalBandwidth     BitsPerSec
	AvailableBandwidth BitsPerSec
	Delay              Nanosecs
}

// LinkSimDesc is a self-contained, bottleneck-centric description of one
// edge's link-level simulation problem (§4.4): the bottleneck link itself,
// synthetic links summarizing everything upstream/downstream of it, the
// node set involved, and the flow IDs that traverse the bottleneck.
type LinkSimDesc struct {
	EdgeIndex  EdgeKey
	Bottleneck LinkSimLink
	OtherLinks []LinkSimLink
	Nodes      []LinkSimNode
	Flows      []FlowId
}

// LinkSimDescError reports a violated invariant while deriving a
// LinkSimDesc (§4.4): either endpoint set overlap, or a host bottleneck
// endpoint with more than one flow endpoint sharing it.
type LinkSimDescError struct {
	Reason string
}

func (e *LinkSimDescError) Error() string { return "link sim descriptor: " + e.Reason }

// DeriveLinkSimDesc builds the LinkSimDesc for a directed edge (§4.4). The
// second return value is false if the edge carries no flows, matching the
// operation's `Option` return in spec (§4.4: "Returns None if the edge
// carries no flows").
func DeriveLinkSimDesc(sn *SimNetwork, edge EdgeKey) (*LinkSimDesc, bool, error) {
	fc, ok := sn.Channel(edge)
	if !ok {
		return nil, false, nil
	}

	bsrc, bdst := edge.Src, edge.Dst

	for s := range fc.FlowSrcs {
		if _, dup := fc.FlowDsts[s]; dup {
			return nil, false, &LinkSimDescError{Reason: fmt.Sprintf("node %s is both a flow source and a flow destination on edge %s", s, edge)}
		}
	}

	var otherLinks []LinkSimLink

	if _, isSrcHost := fc.FlowSrcs[bsrc]; isSrcHost {
		if len(fc.FlowSrcs) != 1 {
			return nil, false, &LinkSimDescError{Reason: fmt.Sprintf("host bottleneck source %s expects exactly 1 flow source, got %d", bsrc, len(fc.FlowSrcs))}
		}
	} else {
		for s := range fc.FlowSrcs {
			link, err := summarizeSourcePath(sn, s, bsrc)
			if err != nil {
				return nil, false, err
			}
			otherLinks = append(otherLinks, link)
		}
	}

	if _, isDstHost := fc.FlowDsts[bdst]; isDstHost {
		if len(fc.FlowDsts) != 1 {
			return nil, false, &LinkSimDescError{Reason: fmt.Sprintf("host bottleneck destination %s expects exactly 1 flow destination, got %d", bdst, len(fc.FlowDsts))}
		}
	} else {
		for d := range fc.FlowDsts {
			link, err := summarizeDestPath(sn, bdst, d)
			if err != nil {
				return nil, false, err
			}
			otherLinks = append(otherLinks, link)
		}
	}

	bottleneckRate := ackRate(sn, edge)
	bottleneck := LinkSimLink{
		From:               bsrc,
		To:                 bdst,
		TotalBandwidth:     fc.Bandwidth,
		AvailableBandwidth: saturatingSubBps(fc.Bandwidth, bottleneckRate),
		Delay:              fc.Delay,
	}

	nodeSet := make(map[NodeId]LinkRole)
	for s := range fc.FlowSrcs {
		nodeSet[s] = RoleSource
	}
	for d := range fc.FlowDsts {
		nodeSet[d] = RoleDestination
	}
	for _, id := range []NodeId{bsrc, bdst} {
		if _, already := nodeSet[id]; already {
			continue
		}
		nodeSet[id] = RoleSwitch
	}

	nodes := make([]LinkSimNode, 0, len(nodeSet))
	for id, role := range nodeSet {
		nodes = append(nodes, LinkSimNode{ID: id, Role: role})
	}

	flows := make([]FlowId, len(fc.Flows))
	copy(flows, fc.Flows)

	return &LinkSimDesc{
		EdgeIndex:  edge,
		Bottleneck: bottleneck,
		OtherLinks: otherLinks,
		Nodes:      nodes,
		Flows:      flows,
	}, true, nil
}

// summarizeSourcePath collapses the representative (first-ECMP-choice)
// path from a source host to the bottleneck source into one synthetic
// link (§4.4): total_bandwidth is the first-hop bandwidth, available
// subtracts that hop's ack_rate, delay sums the whole path.
func summarizeSourcePath(sn *SimNetwork, s, bsrc NodeId) (LinkSimLink, error) {
	path, err := firstChoicePath(sn.Routes, s, bsrc)
	if err != nil {
		return LinkSimLink{}, err
	}
	if len(path) == 0 {
		return LinkSimLink{}, &LinkSimDescError{Reason: fmt.Sprintf("empty representative path from %s to %s", s, bsrc)}
	}
	first := path[0]
	firstChan, ok := sn.Topology.Channel(first.Src, first.Dst)
	if !ok {
		return LinkSimLink{}, &LinkSimDescError{Reason: fmt.Sprintf("missing channel %s on representative path", first)}
	}
	var delay Nanosecs
	for _, e := range path {
		c, ok := sn.Topology.Channel(e.Src, e.Dst)
		if !ok {
			return LinkSimLink{}, &LinkSimDescError{Reason: fmt.Sprintf("missing channel %s on representative path", e)}
		}
		delay += c.Delay
	}
	rate := ackRate(sn, first)
	return LinkSimLink{
		From:               s,
		To:                 bsrc,
		TotalBandwidth:     firstChan.Bandwidth,
		AvailableBandwidth: saturatingSubBps(firstChan.Bandwidth, rate),
		Delay:              delay,
	}, nil
}

// summarizeDestPath collapses the representative path from the bottleneck
// destination to a destination host into one synthetic "fat" link (§4.4):
// bandwidth is 10x the minimum bandwidth along the path, with no ACK
// subtraction.
func summarizeDestPath(sn *SimNetwork, bdst, d NodeId) (LinkSimLink, error) {
	path, err := firstChoicePath(sn.Routes, bdst, d)
	if err != nil {
		return LinkSimLink{}, err
	}
	if len(path) == 0 {
		return LinkSimLink{}, &LinkSimDescError{Reason: fmt.Sprintf("empty representative path from %s to %s", bdst, d)}
	}
	var delay Nanosecs
	var minBw BitsPerSec
	for i, e := range path {
		c, ok := sn.Topology.Channel(e.Src, e.Dst)
		if !ok {
			return LinkSimLink{}, &LinkSimDescError{Reason: fmt.Sprintf("missing channel %s on representative path", e)}
		}
		delay += c.Delay
		if i == 0 || c.Bandwidth < minBw {
			minBw = c.Bandwidth
		}
	}
	fat := minBw.Scale(DestFatLinkFactor)
	return LinkSimLink{
		From:               bdst,
		To:                 d,
		TotalBandwidth:     fat,
		AvailableBandwidth: fat,
		Delay:              delay,
	}, nil
}

// ackRate derives the ACK bandwidth consumed on an edge from its
// reverse-direction channel's aggregate ACK bytes over its active duration
// (§4.4): 0 if the reverse edge carries no flows or has zero duration.
func ackRate(sn *SimNetwork, edge EdgeKey) BitsPerSec {
	reverse := EdgeKey{Src: edge.Dst, Dst: edge.Src}
	rc, ok := sn.Channel(reverse)
	if !ok {
		return 0
	}
	duration := rc.FlowEnd.Sub(rc.FlowStart)
	if duration == 0 {
		return 0
	}
	bits := float64(rc.NrAckBytes) * 8
	seconds := float64(duration) / 1e9
	return BitsPerSec(bits / seconds)
}

func saturatingSubBps(a, b BitsPerSec) BitsPerSec {
	if b >= a {
		return 0
	}
	return a - b
}

// LinkSimSpec is the fully materialized form of a LinkSimDesc handed to a
// link simulator (§6.3): flow IDs resolved to full Flow records.
type LinkSimSpec struct {
	EdgeIndex  EdgeKey
	Bottleneck LinkSimLink
	OtherLinks []LinkSimLink
	Nodes      []LinkSimNode
	Flows      []Flow
}

// MaterializeFlows resolves a LinkSimDesc's flow IDs against a SimNetwork
// into a LinkSimSpec ready for simulation.
func (d *LinkSimDesc) MaterializeFlows(sn *SimNetwork) (*LinkSimSpec, error) {
	return d.MaterializeFlowsFrom(sn.flows)
}

// MaterializeFlowsFrom resolves a LinkSimDesc's flow IDs against an
// explicit FlowId → Flow map, for callers (e.g. a distributed worker) that
// received only the minimal flow set over the wire rather than a full
// SimNetwork (§4.9).
func (d *LinkSimDesc) MaterializeFlowsFrom(byID map[FlowId]Flow) (*LinkSimSpec, error) {
	flows := make([]Flow, 0, len(d.Flows))
	for _, id := range d.Flows {
		f, ok := byID[id]
		if !ok {
			return nil, &LinkSimDescError{Reason: fmt.Sprintf("flow %s referenced by descriptor but missing from network", id)}
		}
		flows = append(flows, f)
	}
	return &LinkSimSpec{
		EdgeIndex:  d.EdgeIndex,
		Bottleneck: d.Bottleneck,
		OtherLinks: d.OtherLinks,
		Nodes:      d.Nodes,
		Flows:      flows,
	}, nil
}

// Contiguousify renumbers a LinkSimSpec's node IDs to a dense 0..N-1 range
// for simulators that require it (§6.3), returning the renumbered spec and
// the old→new ID map.
func Contiguousify(spec *LinkSimSpec) (*LinkSimSpec, map[NodeId]NodeId) {
	remap := make(map[NodeId]NodeId, len(spec.Nodes))
	nodes := make([]LinkSimNode, len(spec.Nodes))
	for i, n := range spec.Nodes {
		remap[n.ID] = NodeId(i)
		nodes[i] = LinkSimNode{ID: NodeId(i), Role: n.Role}
	}

	remapLink := func(l LinkSimLink) LinkSimLink {
		l.From = remap[l.From]
		l.To = remap[l.To]
		return l
	}

	bottleneck := remapLink(spec.Bottleneck)
	other := make([]LinkSimLink, len(spec.OtherLinks))
	for i, l := range spec.OtherLinks {
		other[i] = remapLink(l)
	}

	flows := make([]Flow, len(spec.Flows))
	for i, f := range spec.Flows {
		f.Src = remap[f.Src]
		f.Dst = remap[f.Dst]
		flows[i] = f
	}

	return &LinkSimSpec{
		EdgeIndex:  spec.EdgeIndex,
		Bottleneck: bottleneck,
		OtherLinks: other,
		Nodes:      nodes,
		Flows:      flows,
	}, remap
}
