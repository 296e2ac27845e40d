package clustering

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/delaynet/delaynet"
)

// Greedy implements the greedy feature-based clustering algorithm (§4.5):
// repeatedly pick an unclustered edge as the next representative, then in
// parallel absorb every remaining unclustered edge whose feature is close
// enough to the representative's.
type Greedy struct {
	Extractor Extractor
	Closeness Closeness
}

// NewGreedy builds a Greedy clusterer with the default percentile
// extractor and the given WMAPE threshold.
func NewGreedy(threshold float64) Greedy {
	return Greedy{
		Extractor: DefaultExtractor(),
		Closeness: WMAPECloseness{Threshold: threshold},
	}
}

// featureCache memoizes one edge's Feature under a "compute once" policy
// (§5): concurrent callers computing the same edge's feature block on a
// single underlying computation via singleflight.
type featureCache struct {
	group singleflight.Group
	mu    sync.Mutex
	known map[delaynet.EdgeKey]Feature
	ok    map[delaynet.EdgeKey]bool
}

func newFeatureCache() *featureCache {
	return &featureCache{
		known: make(map[delaynet.EdgeKey]Feature),
		ok:    make(map[delaynet.EdgeKey]bool),
	}
}

func (c *featureCache) get(sn *delaynet.SimNetwork, ex Extractor, edge delaynet.EdgeKey) (Feature, bool) {
	c.mu.Lock()
	if f, seen := c.ok[edge]; seen {
		feature := c.known[edge]
		c.mu.Unlock()
		return feature, f
	}
	c.mu.Unlock()

	type result struct {
		f  Feature
		ok bool
	}
	v, _, _ := c.group.Do(edge.String(), func() (interface{}, error) {
		f, ok := ex.Extract(sn, edge)
		return result{f, ok}, nil
	})
	r := v.(result)

	c.mu.Lock()
	c.known[edge] = r.f
	c.ok[edge] = r.ok
	c.mu.Unlock()
	return r.f, r.ok
}

// Cluster implements delaynet.ClusteringAlgo.
func (g Greedy) Cluster(sn *delaynet.SimNetwork) []delaynet.Cluster {
	edges := sn.EdgeIndices()
	unclustered := make(map[delaynet.EdgeKey]bool, len(edges))
	for _, e := range edges {
		unclustered[e] = true
	}

	cache := newFeatureCache()
	var clusters []delaynet.Cluster

	for len(unclustered) > 0 {
		var rep delaynet.EdgeKey
		for _, e := range edges {
			if unclustered[e] {
				rep = e
				break
			}
		}
		delete(unclustered, rep)

		members := []delaynet.EdgeKey{rep}
		repFeature, repOK := cache.get(sn, g.Extractor, rep)

		if repOK {
			remaining := make([]delaynet.EdgeKey, 0, len(unclustered))
			for _, e := range edges {
				if unclustered[e] {
					remaining = append(remaining, e)
				}
			}

			var mu sync.Mutex
			var wg sync.WaitGroup
			for _, e := range remaining {
				wg.Add(1)
				go func(e delaynet.EdgeKey) {
					defer wg.Done()
					f, ok := cache.get(sn, g.Extractor, e)
					if !ok || !g.Closeness.Close(repFeature, f) {
						return
					}
					mu.Lock()
					members = append(members, e)
					mu.Unlock()
				}(e)
			}
			wg.Wait()

			for _, m := range members[1:] {
				delete(unclustered, m)
			}
		}

		clusters = append(clusters, delaynet.Cluster{Representative: rep, Members: members})
	}

	return clusters
}
