package delaynet

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// HopTable is the routing table built by §4.2: hops[from][to] is the set of
// valid next hops from "from" towards "to", preserved as an unordered but
// deterministic-content set supporting equal-cost multi-path.
type HopTable struct {
	hops map[NodeId]map[NodeId][]NodeId
}

// NextHops returns the next-hop choices from "from" toward "to", or nil if
// no route exists. The returned slice must not be mutated.
func (h *HopTable) NextHops(from, to NodeId) []NodeId {
	m, ok := h.hops[from]
	if !ok {
		return nil
	}
	return m[to]
}

// HasRoute reports whether any route exists between from and to.
func (h *HopTable) HasRoute(from, to NodeId) bool {
	return len(h.NextHops(from, to)) > 0
}

// BuildRoutes computes the routing table for a topology (§4.2): BFS rooted
// at every node, expanding only through switches (hosts are terminal),
// recording every in-neighbor at distance-1 as a valid next hop. BFS over
// all source nodes is embarrassingly parallel and is run with a bounded
// worker pool; each goroutine only ever writes to the table row for its own
// start node, so the final merge needs no additional synchronization.
func BuildRoutes(t *Topology) *HopTable {
	rows := make([]map[NodeId]map[NodeId][]NodeId, len(t.nodes))

	var g errgroup.Group
	g.SetLimit(maxParallelism())
	for i, start := range t.nodes {
		i, start := i, start.ID
		g.Go(func() error {
			rows[i] = bfsFrom(t, start)
			return nil
		})
	}
	_ = g.Wait() // bfsFrom never errors

	hops := make(map[NodeId]map[NodeId][]NodeId, len(t.nodes))
	for i, start := range t.nodes {
		for to, froms := range rows[i] {
			if hops[to] == nil {
				hops[to] = make(map[NodeId][]NodeId)
			}
			hops[to][start.ID] = froms[start.ID]
		}
	}
	return &HopTable{hops: hops}
}

// bfsFrom computes, for a single start node, the map hops[arrivedAt] giving
// the set of valid predecessors one hop closer to start — i.e. exactly the
// inner structure the original routing table indexes as hops[to][from].
//
// This mirrors the reference implementation's BFS (queue + distance map,
// switches only re-enqueued, every in-neighbor at distance-1 recorded as a
// next hop) rather than lvlath/graph.Graph.BFS, because lvlath's BFSResult
// records a single Parent per vertex and has no notion of some vertices
// (hosts) being traversal-terminal — neither of which this algorithm can
// use as-is.
func bfsFrom(t *Topology, start NodeId) map[NodeId]map[NodeId][]NodeId {
	discovered := map[NodeId]bool{start: true}
	distance := map[NodeId]int{start: 0}
	queue := []NodeId{start}

	hops := make(map[NodeId]map[NodeId][]NodeId)
	record := func(arrivedAt, next NodeId) {
		if hops[arrivedAt] == nil {
			hops[arrivedAt] = make(map[NodeId][]NodeId)
		}
		hops[arrivedAt][start] = append(hops[arrivedAt][start], next)
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		d := distance[n]
		for _, succ := range t.OrderedNeighbors(n) {
			if !discovered[succ] {
				discovered[succ] = true
				distance[succ] = d + 1
				if kind, _ := t.Node(succ); kind.Kind == Switch {
					queue = append(queue, succ)
				}
			}
			if distance[succ] == d+1 {
				record(succ, n)
			}
		}
	}
	return hops
}

func maxParallelism() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
