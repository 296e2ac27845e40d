package linksim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaynet/delaynet"
)

func TestFIFO_Name(t *testing.T) {
	assert.Equal(t, "fifo", FIFO{}.Name())
}

func TestFIFO_ZeroAvailableBandwidthIsError(t *testing.T) {
	spec := &delaynet.LinkSimSpec{
		Bottleneck: delaynet.LinkSimLink{AvailableBandwidth: 0},
		Flows:      []delaynet.Flow{{ID: 0, Src: 0, Dst: 1, Size: 100, Start: 0}},
	}
	_, err := FIFO{}.Simulate(spec)
	require.Error(t, err)
	var simErr *delaynet.LinkSimError
	require.ErrorAs(t, err, &simErr)
}

func TestFIFO_SingleFlowOneRecordPerFlow(t *testing.T) {
	spec := &delaynet.LinkSimSpec{
		Bottleneck: delaynet.LinkSimLink{
			From: 0, To: 1,
			TotalBandwidth:     delaynet.BitsPerSecFromGbps(10),
			AvailableBandwidth: delaynet.BitsPerSecFromGbps(10),
			Delay:              1000,
		},
		Flows: []delaynet.Flow{{ID: 0, Src: 0, Dst: 1, Size: 1000, Start: 0}},
	}
	records, err := FIFO{}.Simulate(spec)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, delaynet.Bytes(1000), records[0].Size)
	assert.Greater(t, records[0].Fct, delaynet.Nanosecs(0))
	assert.Greater(t, records[0].Ideal, delaynet.Nanosecs(0))
}

func TestFIFO_ReducedAvailableBandwidthInflatesFct(t *testing.T) {
	full := delaynet.LinkSimLink{
		From: 0, To: 1,
		TotalBandwidth:     delaynet.BitsPerSecFromGbps(10),
		AvailableBandwidth: delaynet.BitsPerSecFromGbps(10),
	}
	reduced := full
	reduced.AvailableBandwidth = delaynet.BitsPerSecFromGbps(1)

	flow := delaynet.Flow{ID: 0, Src: 0, Dst: 1, Size: 100000, Start: 0}
	fullRecords, err := FIFO{}.Simulate(&delaynet.LinkSimSpec{Bottleneck: full, Flows: []delaynet.Flow{flow}})
	require.NoError(t, err)
	reducedRecords, err := FIFO{}.Simulate(&delaynet.LinkSimSpec{Bottleneck: reduced, Flows: []delaynet.Flow{flow}})
	require.NoError(t, err)

	assert.Greater(t, reducedRecords[0].Fct, fullRecords[0].Fct)
}

func TestFIFO_QueueingDelaysLaterFlow(t *testing.T) {
	spec := &delaynet.LinkSimSpec{
		Bottleneck: delaynet.LinkSimLink{
			From: 0, To: 1,
			TotalBandwidth:     delaynet.BitsPerSecFromGbps(1),
			AvailableBandwidth: delaynet.BitsPerSecFromGbps(1),
			Delay:              0,
		},
		Flows: []delaynet.Flow{
			{ID: 0, Src: 0, Dst: 1, Size: 100000, Start: 0},
			{ID: 1, Src: 0, Dst: 1, Size: 100, Start: 1},
		},
	}
	records, err := FIFO{}.Simulate(spec)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// flow 1 arrives almost immediately after flow 0 but must wait for the
	// bottleneck to finish serializing the much larger flow 0 first.
	assert.Greater(t, records[1].Fct, records[0].Fct/2)
}

func TestNS3Stub_AlwaysErrors(t *testing.T) {
	sim, err := newNS3Stub(nil)
	require.NoError(t, err)
	assert.Equal(t, "ns3", sim.Name())
	_, err = sim.Simulate(&delaynet.LinkSimSpec{})
	require.Error(t, err)
}
