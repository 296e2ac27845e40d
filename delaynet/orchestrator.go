package delaynet

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkerParams is the request sent to a remote worker (§4.9, §6.5): the
// named link simulator plus its configuration, the descriptors to
// simulate, and the minimal set of flows those descriptors reference.
type WorkerParams struct {
	LinkSimName   string
	LinkSimConfig []byte
	Descs         []*LinkSimDesc
	Flows         []Flow
}

// EdgeRecords pairs one edge with the FctRecords its representative
// simulation produced.
type EdgeRecords struct {
	EdgeIndex EdgeKey
	Records   []FctRecord
}

// WorkerResult is the response a worker returns for a WorkerParams request.
type WorkerResult struct {
	Results []EdgeRecords
}

// Dispatcher sends a WorkerParams request to a named worker address and
// returns its response. Implementations live in delaynet/rpc; the
// orchestrator depends only on this interface so it never needs to import
// the transport package (which itself imports delaynet for the wire
// types), avoiding an import cycle.
type Dispatcher interface {
	Dispatch(addr string, params WorkerParams) (WorkerResult, error)
}

// SimOpts configures one into_delays orchestrator run (§4.6).
type SimOpts struct {
	// LinkSim is used directly in local mode (WorkerAddrs is empty).
	LinkSim LinkSim

	// LinkSimName and LinkSimConfig identify and configure the simulator a
	// remote worker should use in distributed mode; ignored in local mode.
	LinkSimName   string
	LinkSimConfig []byte

	// WorkerAddrs lists remote worker addresses. An empty list selects
	// local mode.
	WorkerAddrs []string
	Dispatcher  Dispatcher

	// Clustering selects the clustering algorithm; defaults to
	// IdentityClustering (one cluster per edge) if nil.
	Clustering ClusteringAlgo

	// Bucket configures the size-bucketing policy (§4.7); defaults applied
	// if the zero value is passed.
	Bucket BucketOpts

	// RNG seeds the distributed-mode representative shuffle (§4.6). A
	// fresh PartitionedRNG(0) is used if nil.
	RNG *PartitionedRNG
}

// IntoDelays runs the simulation orchestrator end-to-end (§4.6): clusters
// the network's edges, simulates one representative per cluster (locally
// or distributed across remote workers), and folds the resulting FctRecords
// into a queryable DelayNetwork.
func IntoDelays(sn *SimNetwork, opts SimOpts) (*DelayNetwork, error) {
	clustering := opts.Clustering
	if clustering == nil {
		clustering = IdentityClustering{}
	}
	bucket := opts.Bucket
	if bucket.X == 0 {
		bucket = DefaultBucketOpts()
	}

	clusters := clustering.Cluster(sn)

	descs := make(map[EdgeKey]*LinkSimDesc, len(clusters))
	for _, c := range clusters {
		desc, ok, err := DeriveLinkSimDesc(sn, c.Representative)
		if err != nil {
			return nil, err
		}
		if ok {
			descs[c.Representative] = desc
		}
	}

	var results map[EdgeKey][]FctRecord
	var err error
	if len(opts.WorkerAddrs) == 0 {
		results, err = simulateLocal(sn, opts.LinkSim, descs)
	} else {
		results, err = simulateDistributed(sn, opts, descs)
	}
	if err != nil {
		return nil, err
	}

	dists := make(map[EdgeKey]*SizeBucketedEDist, len(sn.chans))
	for _, c := range clusters {
		data, ok := results[c.Representative]
		if !ok {
			continue
		}
		for _, member := range c.Members {
			dist := NewEmptySizeBucketedEDist()
			if err := dist.FillFromRecords(data, bucket); err != nil {
				return nil, err
			}
			dists[member] = dist
		}
	}

	return NewDelayNetwork(sn.Topology, sn.Routes, dists), nil
}

// simulateLocal runs every cluster representative's simulation concurrently
// over a bounded worker pool (§4.6 "Local" mode).
func simulateLocal(sn *SimNetwork, sim LinkSim, descs map[EdgeKey]*LinkSimDesc) (map[EdgeKey][]FctRecord, error) {
	if sim == nil {
		return nil, fmt.Errorf("delaynet: local orchestration requires a non-nil LinkSim")
	}

	var mu sync.Mutex
	out := make(map[EdgeKey][]FctRecord, len(descs))

	var g errgroup.Group
	g.SetLimit(maxParallelism())
	for edge, desc := range descs {
		edge, desc := edge, desc
		g.Go(func() error {
			spec, err := desc.MaterializeFlows(sn)
			if err != nil {
				return err
			}
			records, err := sim.Simulate(spec)
			if err != nil {
				return &LinkSimError{Name: sim.Name(), Reason: err.Error()}
			}
			mu.Lock()
			out[edge] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// simulateDistributed partitions cluster representatives across remote
// workers by random shuffle into equal-size chunks (§4.6 "Distributed"
// mode), sends each worker the minimal flow set its descriptors reference,
// and folds the responses back into an edge → records map.
func simulateDistributed(sn *SimNetwork, opts SimOpts, descs map[EdgeKey]*LinkSimDesc) (map[EdgeKey][]FctRecord, error) {
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("delaynet: distributed orchestration requires a non-nil Dispatcher")
	}

	edges := make([]EdgeKey, 0, len(descs))
	for _, e := range sn.EdgeIndices() {
		if _, ok := descs[e]; ok {
			edges = append(edges, e)
		}
	}

	rng := opts.RNG
	if rng == nil {
		rng = NewPartitionedRNG(0)
	}
	shuffleEdges(edges, rng)

	chunks := partitionInto(edges, len(opts.WorkerAddrs))

	var mu sync.Mutex
	out := make(map[EdgeKey][]FctRecord, len(descs))

	var g errgroup.Group
	for i, addr := range opts.WorkerAddrs {
		i, addr := i, addr
		chunk := chunks[i]
		if len(chunk) == 0 {
			continue
		}
		g.Go(func() error {
			params := WorkerParams{
				LinkSimName:   opts.LinkSimName,
				LinkSimConfig: opts.LinkSimConfig,
				Descs:         make([]*LinkSimDesc, len(chunk)),
				Flows:         minimalFlowSet(sn, chunk, descs),
			}
			for j, e := range chunk {
				params.Descs[j] = descs[e]
			}
			resp, err := opts.Dispatcher.Dispatch(addr, params)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, r := range resp.Results {
				out[r.EdgeIndex] = r.Records
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// minimalFlowSet resolves exactly the flows referenced by a set of
// descriptors, deduplicated, so a worker request carries no more than it
// needs (§4.6).
func minimalFlowSet(sn *SimNetwork, edges []EdgeKey, descs map[EdgeKey]*LinkSimDesc) []Flow {
	seen := make(map[FlowId]bool)
	var flows []Flow
	for _, e := range edges {
		for _, id := range descs[e].Flows {
			if seen[id] {
				continue
			}
			seen[id] = true
			if f, ok := sn.Flow(id); ok {
				flows = append(flows, f)
			}
		}
	}
	return flows
}

func shuffleEdges(edges []EdgeKey, rng *PartitionedRNG) {
	r := rng.ForSubsystem(SubsystemDistribute)
	r.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
}

// partitionInto splits edges into n equal-size (±1) contiguous chunks.
func partitionInto(edges []EdgeKey, n int) [][]EdgeKey {
	chunks := make([][]EdgeKey, n)
	if n == 0 {
		return chunks
	}
	base := len(edges) / n
	rem := len(edges) % n
	idx := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks[i] = edges[idx : idx+size]
		idx += size
	}
	return chunks
}
