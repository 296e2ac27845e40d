// Package clustering implements the greedy feature-based clustering
// algorithm (§4.5): edges with similar traffic characteristics are grouped
// so that one simulated representative stands in for the whole group.
package clustering

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/delaynet/delaynet"
)

// Feature summarizes one edge's traffic shape for closeness comparison
// (§4.5): size-distribution percentiles, inter-arrival-time percentiles,
// and link load.
type Feature struct {
	SizePercentiles         []float64
	InterArrivalPercentiles []float64
	Load                    float64
}

// Extractor computes a Feature for one edge's channel and its flows
// (§4.5: "A feature extractor maps (channel, flows_on_channel) → Feature").
type Extractor struct {
	// Percentiles are the quantiles (in [0, 100]) sampled from the size and
	// inter-arrival distributions, e.g. []float64{50, 90, 99}.
	Percentiles []float64
}

// DefaultExtractor returns an Extractor sampling the median and tail
// percentiles, matching the traffic-characterization percentiles typically
// reported for datacenter flow traces.
func DefaultExtractor() Extractor {
	return Extractor{Percentiles: []float64{50, 90, 99}}
}

// Extract computes the Feature for an edge, or false if the edge carries no
// flows (a Feature is undefined for an edge with nothing to characterize).
func (ex Extractor) Extract(sn *delaynet.SimNetwork, edge delaynet.EdgeKey) (Feature, bool) {
	fc, ok := sn.Channel(edge)
	if !ok || fc.NrFlows() == 0 {
		return Feature{}, false
	}

	sizes := make([]float64, 0, fc.NrFlows())
	starts := make([]float64, 0, fc.NrFlows())
	for _, id := range fc.Flows {
		f, ok := sn.Flow(id)
		if !ok {
			continue
		}
		sizes = append(sizes, f.Size.Into())
		starts = append(starts, f.Start.Into())
	}
	if len(sizes) == 0 {
		return Feature{}, false
	}

	interArrivals := make([]float64, 0, len(starts))
	for i := 1; i < len(starts); i++ {
		interArrivals = append(interArrivals, starts[i]-starts[i-1])
	}
	if len(interArrivals) == 0 {
		interArrivals = []float64{0}
	}

	duration := fc.FlowEnd.Sub(fc.FlowStart)
	var load float64
	if duration > 0 && fc.Bandwidth > 0 {
		seconds := duration.Into() / 1e9
		load = (fc.NrBytes.Into() * 8) / (fc.Bandwidth.Into() * seconds)
	}

	return Feature{
		SizePercentiles:         quantiles(sizes, ex.Percentiles),
		InterArrivalPercentiles: quantiles(interArrivals, ex.Percentiles),
		Load:                    load,
	}, true
}

// quantiles returns the empirical quantile of x at each requested
// percentile (0-100), using gonum's stat.Empirical estimator (the smallest
// sample whose cumulative fraction reaches the percentile; no
// interpolation).
func quantiles(x []float64, percentiles []float64) []float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	out := make([]float64, len(percentiles))
	for i, p := range percentiles {
		out[i] = stat.Quantile(p/100, stat.Empirical, sorted, nil)
	}
	return out
}
