package delaynet

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph"
)

// Link is an undirected spec-level link between two distinct nodes (§3).
type Link struct {
	A, B      NodeId
	Bandwidth BitsPerSec
	Delay     Nanosecs
}

// NewLink constructs a Link.
func NewLink(a, b NodeId, bandwidth BitsPerSec, delay Nanosecs) Link {
	return Link{A: a, B: b, Bandwidth: bandwidth, Delay: delay}
}

// EdgeKey identifies a directed channel by its ordered endpoints.
type EdgeKey struct {
	Src, Dst NodeId
}

func (k EdgeKey) String() string { return fmt.Sprintf("%s->%s", k.Src, k.Dst) }

// BasicChannel is a directed, immutable edge of a Topology, expanded from
// one undirected Link (§3). Two BasicChannels are created per Link, one per
// direction.
type BasicChannel struct {
	Src, Dst  NodeId
	Bandwidth BitsPerSec
	Delay     Nanosecs
}

// TopologyError reports a structural validation failure (§4.1). The
// concrete error value can be recovered with errors.As.
type TopologyError struct {
	Kind string
	Node NodeId
	N1   NodeId
	N2   NodeId
	N     int
}

func (e *TopologyError) Error() string {
	switch e.Kind {
	case "DuplicateNodeId":
		return fmt.Sprintf("duplicate node ID %s", e.Node)
	case "HoleBeforeId":
		return fmt.Sprintf("node IDs are not dense starting at 0 (missing %s)", e.Node)
	case "NodeAdjacentSelf":
		return fmt.Sprintf("node %s is connected to itself", e.Node)
	case "UndeclaredNode":
		return fmt.Sprintf("node %s is not declared", e.Node)
	case "IsolatedNode":
		return fmt.Sprintf("node %s is not connected to any other node", e.Node)
	case "DuplicateLink":
		return fmt.Sprintf("duplicate link between %s and %s", e.N1, e.N2)
	case "TooManyHostLinks":
		return fmt.Sprintf("host %s has too many links (expected 1, got %d)", e.Node, e.N)
	default:
		return fmt.Sprintf("invalid topology: %s", e.Kind)
	}
}

// Topology is a validated directed multigraph of nodes and channels. It is
// built once by NewTopology and is read-only afterwards.
//
// The structural graph lives in an embedded lvlath/graph.Graph, keyed by
// each NodeId's String() form (e.g. "n3"); lvlath's Edge type carries only
// an int64 weight, so the richer per-channel state (bandwidth, delay, and
// later flow/distribution data) is held in chans, keyed by EdgeKey. adj
// preserves the order in which channels were declared, which downstream
// ECMP hop selection (§4.3) depends on for reproducibility — lvlath's own
// adjacency iteration order is a Go map and therefore unspecified.
type Topology struct {
	nodes []Node
	links []Link // original links, preserved for round-tripping

	g     *graph.Graph
	chans map[EdgeKey]BasicChannel
	adj   map[NodeId][]NodeId // ordered: declaration order of channels out of each node
}

// NewTopology validates nodes and links and builds a Topology. Validation
// order matters: the first failure encountered is returned (§4.1).
func NewTopology(nodes []Node, links []Link) (*Topology, error) {
	byID := make(map[NodeId]Node, len(nodes))
	maxID := -1
	for _, n := range nodes {
		if _, dup := byID[n.ID]; dup {
			return nil, &TopologyError{Kind: "DuplicateNodeId", Node: n.ID}
		}
		byID[n.ID] = n
		if int(n.ID) > maxID {
			maxID = int(n.ID)
		}
	}
	for i := 0; i <= maxID; i++ {
		if _, ok := byID[NodeId(i)]; !ok {
			return nil, &TopologyError{Kind: "HoleBeforeId", Node: NodeId(i)}
		}
	}

	for _, l := range links {
		if l.A == l.B {
			return nil, &TopologyError{Kind: "NodeAdjacentSelf", Node: l.A}
		}
	}
	referenced := make(map[NodeId]bool, len(nodes))
	for _, l := range links {
		if _, ok := byID[l.A]; !ok {
			return nil, &TopologyError{Kind: "UndeclaredNode", Node: l.A}
		}
		if _, ok := byID[l.B]; !ok {
			return nil, &TopologyError{Kind: "UndeclaredNode", Node: l.B}
		}
		referenced[l.A] = true
		referenced[l.B] = true
	}
	for _, n := range nodes {
		if !referenced[n.ID] {
			return nil, &TopologyError{Kind: "IsolatedNode", Node: n.ID}
		}
	}

	g := graph.NewGraph(true, true)
	for _, n := range nodes {
		g.AddVertex(&graph.Vertex{ID: nodeKey(n.ID), Metadata: map[string]interface{}{"kind": n.Kind}})
	}

	chans := make(map[EdgeKey]BasicChannel, 2*len(links))
	adj := make(map[NodeId][]NodeId, len(nodes))
	for _, l := range links {
		fwd := EdgeKey{Src: l.A, Dst: l.B}
		rev := EdgeKey{Src: l.B, Dst: l.A}
		if _, dup := chans[fwd]; dup {
			return nil, &TopologyError{Kind: "DuplicateLink", N1: l.A, N2: l.B}
		}
		chans[fwd] = BasicChannel{Src: l.A, Dst: l.B, Bandwidth: l.Bandwidth, Delay: l.Delay}
		chans[rev] = BasicChannel{Src: l.B, Dst: l.A, Bandwidth: l.Bandwidth, Delay: l.Delay}
		g.AddEdge(nodeKey(l.A), nodeKey(l.B), int64(l.Bandwidth))
		g.AddEdge(nodeKey(l.B), nodeKey(l.A), int64(l.Bandwidth))
		adj[l.A] = append(adj[l.A], l.B)
		adj[l.B] = append(adj[l.B], l.A)
	}

	hostLinks := make(map[NodeId]int, len(nodes))
	for _, l := range links {
		hostLinks[l.A]++
		hostLinks[l.B]++
	}
	for _, n := range nodes {
		if n.Kind == Host && hostLinks[n.ID] > 1 {
			return nil, &TopologyError{Kind: "TooManyHostLinks", Node: n.ID, N: hostLinks[n.ID]}
		}
	}

	return &Topology{
		nodes: append([]Node(nil), nodes...),
		links: append([]Link(nil), links...),
		g:     g,
		chans: chans,
		adj:   adj,
	}, nil
}

func nodeKey(id NodeId) string { return id.String() }

// Nodes returns the topology's nodes, in declaration order.
func (t *Topology) Nodes() []Node { return t.nodes }

// Links returns the topology's original undirected links, in declaration
// order, for round-tripping.
func (t *Topology) Links() []Link { return t.links }

// Node looks up a node by ID.
func (t *Topology) Node(id NodeId) (Node, bool) {
	for _, n := range t.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Channel returns the directed channel from src to dst, if one exists.
func (t *Topology) Channel(src, dst NodeId) (BasicChannel, bool) {
	c, ok := t.chans[EdgeKey{Src: src, Dst: dst}]
	return c, ok
}

// HasEdge reports whether a directed channel from src to dst exists.
func (t *Topology) HasEdge(src, dst NodeId) bool {
	return t.g.HasEdge(nodeKey(src), nodeKey(dst))
}

// OrderedNeighbors returns the out-neighbors of id in channel-declaration
// order (needed for deterministic ECMP enumeration, §4.3).
func (t *Topology) OrderedNeighbors(id NodeId) []NodeId {
	return t.adj[id]
}

// NumNodes returns the number of nodes in the topology.
func (t *Topology) NumNodes() int { return len(t.nodes) }
