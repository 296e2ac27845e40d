package delaynet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityClustering_OneClusterPerEdgeSelfRepresentative(t *testing.T) {
	flows := make([]Flow, 0, 20)
	for i := 0; i < 20; i++ {
		flows = append(flows, Flow{ID: FlowId(i), Src: 0, Dst: 3, Size: 1000, Start: Nanosecs(i)})
	}
	sn := buildClosNetwork(t, flows)

	clusters := IdentityClustering{}.Cluster(sn)
	edges := sn.EdgeIndices()
	require.Len(t, clusters, len(edges))

	seen := make(map[EdgeKey]bool)
	for _, c := range clusters {
		require.Len(t, c.Members, 1)
		assert.Equal(t, c.Representative, c.Members[0])
		assert.False(t, seen[c.Representative], "every edge must appear in exactly one cluster")
		seen[c.Representative] = true
	}
	for _, e := range edges {
		assert.True(t, seen[e], "edge %s must be covered by some cluster", e)
	}
}
