package delaynet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeNodeLine() (nodes []Node, links []Link) {
	nodes = []Node{NewHost(0), NewSwitch(1), NewHost(2)}
	links = []Link{
		NewLink(0, 1, BitsPerSecFromGbps(10), 1000),
		NewLink(1, 2, BitsPerSecFromGbps(10), 1000),
	}
	return
}

func TestNewTopology_ThreeNodeLine(t *testing.T) {
	nodes, links := threeNodeLine()
	topo, err := NewTopology(nodes, links)
	require.NoError(t, err)
	assert.Equal(t, 3, topo.NumNodes())
	assert.True(t, topo.HasEdge(0, 1))
	assert.True(t, topo.HasEdge(1, 0))
	assert.False(t, topo.HasEdge(0, 2))
}

func TestNewTopology_DuplicateNodeId(t *testing.T) {
	nodes := []Node{NewHost(0), NewHost(0)}
	_, err := NewTopology(nodes, nil)
	require.Error(t, err)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
	assert.Equal(t, "DuplicateNodeId", topoErr.Kind)
}

func TestNewTopology_HoleBeforeId(t *testing.T) {
	nodes := []Node{NewHost(0), NewHost(2)}
	_, err := NewTopology(nodes, nil)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
	assert.Equal(t, "HoleBeforeId", topoErr.Kind)
}

func TestNewTopology_NodeAdjacentSelf(t *testing.T) {
	nodes := []Node{NewHost(0)}
	links := []Link{NewLink(0, 0, BitsPerSecFromGbps(10), 0)}
	_, err := NewTopology(nodes, links)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
	assert.Equal(t, "NodeAdjacentSelf", topoErr.Kind)
}

func TestNewTopology_UndeclaredNode(t *testing.T) {
	nodes := []Node{NewHost(0), NewHost(1)}
	links := []Link{NewLink(0, 2, BitsPerSecFromGbps(10), 0)}
	_, err := NewTopology(nodes, links)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
	assert.Equal(t, "UndeclaredNode", topoErr.Kind)
}

func TestNewTopology_IsolatedNode(t *testing.T) {
	nodes := []Node{NewHost(0), NewHost(1), NewHost(2)}
	links := []Link{NewLink(0, 1, BitsPerSecFromGbps(10), 0)}
	_, err := NewTopology(nodes, links)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
	assert.Equal(t, "IsolatedNode", topoErr.Kind)
}

func TestNewTopology_DuplicateLink(t *testing.T) {
	nodes := []Node{NewHost(0), NewHost(1)}
	links := []Link{
		NewLink(0, 1, BitsPerSecFromGbps(10), 0),
		NewLink(0, 1, BitsPerSecFromGbps(10), 0),
	}
	_, err := NewTopology(nodes, links)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
	assert.Equal(t, "DuplicateLink", topoErr.Kind)
}

func TestNewTopology_TooManyHostLinks(t *testing.T) {
	nodes := []Node{NewHost(0), NewHost(1), NewSwitch(2)}
	links := []Link{
		NewLink(0, 1, BitsPerSecFromGbps(10), 0),
		NewLink(0, 2, BitsPerSecFromGbps(10), 0),
	}
	_, err := NewTopology(nodes, links)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)
	assert.Equal(t, "TooManyHostLinks", topoErr.Kind)
}
