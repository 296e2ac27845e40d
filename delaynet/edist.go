package delaynet

import (
	"math/rand"
	"sort"
)

// EDistError reports a failure building an empirical distribution (§7).
type EDistError struct {
	Reason string
}

func (e *EDistError) Error() string { return "edist: " + e.Reason }

// EDist is a finite empirical sample set. Sampling draws uniformly from the
// stored samples (§4.7).
type EDist struct {
	samples []float64
}

// newEDist builds an EDist from a non-empty sample list. An empty sample
// list is always an error (§4.7) — it indicates a logic error upstream,
// since simulating a non-empty edge must yield at least one record.
func newEDist(samples []float64) (*EDist, error) {
	if len(samples) == 0 {
		return nil, &EDistError{Reason: "no samples provided"}
	}
	cp := make([]float64, len(samples))
	copy(cp, samples)
	return &EDist{samples: cp}, nil
}

// Sample draws one value uniformly at random. An empty EDist (which the
// constructor never produces) would return 0.
func (d *EDist) Sample(rng *rand.Rand) float64 {
	if d == nil || len(d.samples) == 0 {
		return 0
	}
	return d.samples[rng.Intn(len(d.samples))]
}

// sizeBucket is one bucket of a SizeBucketedEDist: the half-open byte range
// [Min, Max) it covers and the distribution built from the samples that
// fell in it.
type sizeBucket struct {
	Min, Max Bytes // [Min, Max)
	Dist     *EDist
}

func (b sizeBucket) contains(size Bytes) bool {
	return size >= b.Min && size < b.Max
}

// SizeBucketedEDist maps size ranges to empirical sample sets (§4.7).
type SizeBucketedEDist struct {
	buckets []sizeBucket
}

// NewEmptySizeBucketedEDist returns a distribution with no buckets (no
// samples ever assigned to this edge, e.g. an edge with no flows).
func NewEmptySizeBucketedEDist() *SizeBucketedEDist {
	return &SizeBucketedEDist{}
}

// ForSize returns the bucket covering size, if any (§4.7, §8: for every
// size s, the returned bucket has min <= s < max).
func (d *SizeBucketedEDist) ForSize(size Bytes) (*EDist, bool) {
	for _, b := range d.buckets {
		if b.contains(size) {
			return b.Dist, true
		}
	}
	return nil, false
}

// BucketOpts configures the greedy bucketing algorithm (§4.7).
type BucketOpts struct {
	// X is the minimum ratio bucket.max / bucket.min required to close a
	// bucket (default 2).
	X float64
	// B is the minimum bucket length required to close a bucket (default
	// 100).
	B int
}

// DefaultBucketOpts returns the spec's default bucketing parameters.
func DefaultBucketOpts() BucketOpts {
	return BucketOpts{X: DefaultBucketFactor, B: DefaultBucketMinSize}
}

// sizedSample is one (size, sample-value) pair to be bucketed.
type sizedSample struct {
	Size  Bytes
	Value float64
}

// Fill buckets data by size and builds one EDist per bucket (§4.7):
//
//  1. Sort data by size.
//  2. Greedily accumulate into the current bucket until both
//     bucket.max >= opts.X * bucket.min and bucket.len >= opts.B hold. Once
//     both hold, keep absorbing further elements with the exact same size,
//     then close the bucket; the next bucket starts at bucket.max + 1.
//  3. Any residual elements form a final bucket extending to +infinity.
func (d *SizeBucketedEDist) Fill(data []sizedSample, opts BucketOpts) error {
	sorted := make([]sizedSample, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Size < sorted[j].Size })

	var buckets []sizeBucket
	var acc []sizedSample
	var lo Bytes
	if len(sorted) > 0 {
		lo = sorted[0].Size
	}
	i := 0
	for i < len(sorted) {
		acc = append(acc, sorted[i])
		min := acc[0].Size
		max := acc[len(acc)-1].Size
		i++
		if float64(max) >= float64(min)*opts.X && len(acc) >= opts.B {
			// Keep absorbing any further elements with the exact same size
			// before closing the bucket.
			for i < len(sorted) && sorted[i].Size == max {
				acc = append(acc, sorted[i])
				i++
			}
			bkt, err := buildBucket(lo, max+1, acc)
			if err != nil {
				return err
			}
			buckets = append(buckets, bkt)
			lo = max + 1
			acc = nil
		}
	}
	if len(acc) > 0 {
		bkt, err := buildBucket(lo, BytesMax, acc)
		if err != nil {
			return err
		}
		buckets = append(buckets, bkt)
	}
	d.buckets = buckets
	return nil
}

// FillFromRecords buckets a set of FctRecords by size and builds one EDist
// per bucket from their packet-normalized delays (§4.6, §4.7).
func (d *SizeBucketedEDist) FillFromRecords(records []FctRecord, opts BucketOpts) error {
	data := make([]sizedSample, len(records))
	for i, r := range records {
		data[i] = sizedSample{Size: r.Size, Value: r.PktnormDelay()}
	}
	return d.Fill(data, opts)
}

// BytesMax stands in for "+infinity" as the upper bound of the final
// bucket: any query size a caller would realistically pass is far below
// the maximum representable Bytes value.
const BytesMax Bytes = 1<<63 - 1

func buildBucket(min, max Bytes, samples []sizedSample) (sizeBucket, error) {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	dist, err := newEDist(values)
	if err != nil {
		return sizeBucket{}, err
	}
	return sizeBucket{Min: min, Max: max, Dist: dist}, nil
}
