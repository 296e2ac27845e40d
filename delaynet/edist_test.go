package delaynet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeBucketedEDist_GreedyBucketing(t *testing.T) {
	// 150 distinct sizes 1..150, then 100 records at size 500. The first
	// bucket closes exactly when both the length (>=100) and ratio
	// (max >= 2*min) conditions hold simultaneously, which happens at the
	// 100th smallest element (value 100). The second bucket accumulates
	// the remaining 50 distinct sizes plus 500-valued records and itself
	// closes once its own length/ratio conditions hold, absorbing every
	// remaining same-sized (500) record — leaving no open-ended residual.
	var data []sizedSample
	for i := 1; i <= 150; i++ {
		data = append(data, sizedSample{Size: Bytes(i), Value: float64(i)})
	}
	for i := 0; i < 100; i++ {
		data = append(data, sizedSample{Size: 500, Value: 500})
	}

	d := &SizeBucketedEDist{}
	require.NoError(t, d.Fill(data, DefaultBucketOpts()))
	require.Len(t, d.buckets, 2)

	assert.Equal(t, Bytes(1), d.buckets[0].Min)
	assert.Equal(t, Bytes(101), d.buckets[0].Max)
	assert.Equal(t, Bytes(101), d.buckets[1].Min)
	assert.Equal(t, Bytes(501), d.buckets[1].Max)
}

func TestSizeBucketedEDist_ResidualBucketExtendsToInfinity(t *testing.T) {
	// A run that never re-satisfies the ratio condition (repeated size)
	// leaves a residual final bucket extending to BytesMax.
	var data []sizedSample
	for i := 1; i <= 100; i++ {
		data = append(data, sizedSample{Size: Bytes(i), Value: float64(i)})
	}
	for i := 0; i < 20; i++ {
		data = append(data, sizedSample{Size: 150, Value: 150})
	}

	d := &SizeBucketedEDist{}
	require.NoError(t, d.Fill(data, DefaultBucketOpts()))
	require.Len(t, d.buckets, 2)
	assert.Equal(t, Bytes(101), d.buckets[1].Min)
	assert.Equal(t, BytesMax, d.buckets[1].Max)
}

func TestSizeBucketedEDist_ForSizeInvariant(t *testing.T) {
	var data []sizedSample
	for i := 1; i <= 150; i++ {
		data = append(data, sizedSample{Size: Bytes(i), Value: float64(i)})
	}
	for i := 0; i < 100; i++ {
		data = append(data, sizedSample{Size: 500, Value: 500})
	}
	d := &SizeBucketedEDist{}
	require.NoError(t, d.Fill(data, DefaultBucketOpts()))

	for _, s := range data {
		bucket, ok := d.ForSize(s.Size)
		require.True(t, ok)
		_ = bucket
	}

	for _, b := range d.buckets {
		assert.LessOrEqual(t, b.Min, b.Max)
	}
}

func TestEDist_EmptySamplesIsError(t *testing.T) {
	_, err := newEDist(nil)
	require.Error(t, err)
}

func TestEDist_SampleDrawsFromStoredValues(t *testing.T) {
	d, err := newEDist([]float64{1, 2, 3})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		v := d.Sample(rng)
		assert.Contains(t, []float64{1, 2, 3}, v)
	}
}

func TestFctRecord_PktnormDelay(t *testing.T) {
	r := FctRecord{Size: MaxPacketSize, Fct: 2000, Ideal: 1000}
	assert.InDelta(t, 1000, r.PktnormDelay(), 0.001)

	negativeAbove := FctRecord{Size: MaxPacketSize, Fct: 500, Ideal: 1000}
	assert.Equal(t, 0.0, negativeAbove.PktnormDelay())
}
