package delaynet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaynet/delaynet/linksim"
)

func validSpecInput() Spec {
	nodes, links := threeNodeLine()
	return Spec{
		Nodes: nodes,
		Links: links,
		Flows: []Flow{{ID: 0, Src: 0, Dst: 2, Size: 1000, Start: 0}},
	}
}

func TestValidate_AcceptsWellFormedSpec(t *testing.T) {
	vs, err := Validate(validSpecInput())
	require.NoError(t, err)
	assert.Equal(t, 3, vs.Topology.NumNodes())
	assert.Len(t, vs.Flows, 1)
}

func TestValidate_RejectsTopologyError(t *testing.T) {
	spec := validSpecInput()
	spec.Nodes = append(spec.Nodes, NewHost(0)) // duplicate node ID
	_, err := Validate(spec)
	require.Error(t, err)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "Topology", specErr.Kind)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
}

func TestValidate_RejectsFlowFromSwitch(t *testing.T) {
	spec := validSpecInput()
	spec.Flows = []Flow{{ID: 7, Src: 1, Dst: 2, Size: 1000, Start: 0}} // node 1 is a switch
	_, err := Validate(spec)
	require.Error(t, err)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "InvalidFlowSrc", specErr.Kind)
	assert.Equal(t, FlowId(7), specErr.Flow)
}

func TestValidate_RejectsFlowToSwitch(t *testing.T) {
	spec := validSpecInput()
	spec.Flows = []Flow{{ID: 9, Src: 0, Dst: 1, Size: 1000, Start: 0}} // node 1 is a switch
	_, err := Validate(spec)
	require.Error(t, err)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "InvalidFlowDst", specErr.Kind)
	assert.Equal(t, FlowId(9), specErr.Flow)
}

func TestValidate_RejectsFlowToUndeclaredNode(t *testing.T) {
	spec := validSpecInput()
	spec.Flows = []Flow{{ID: 1, Src: 0, Dst: 99, Size: 1000, Start: 0}}
	_, err := Validate(spec)
	require.Error(t, err)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "InvalidFlowDst", specErr.Kind)
}

func TestRun_EndToEndProducesQueryableNetwork(t *testing.T) {
	vs, err := Validate(validSpecInput())
	require.NoError(t, err)

	opts := RunOpts{Sim: SimOpts{
		LinkSim:    linksim.FIFO{},
		Clustering: IdentityClustering{},
		Bucket:     DefaultBucketOpts(),
		RNG:        NewPartitionedRNG(NewSimulationKey(42)),
	}}
	dn, err := Run(vs, opts)
	require.NoError(t, err)
	require.NotNil(t, dn)

	_, ok := dn.Dist(EdgeKey{Src: 0, Dst: 1})
	assert.True(t, ok)
}
