package delaynet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpecYAML = `
nodes:
  - id: 0
    kind: host
  - id: 1
    kind: switch
  - id: 2
    kind: host
links:
  - a: 0
    b: 1
    bandwidth_bps: 10000000000
    delay_ns: 1000
  - a: 1
    b: 2
    bandwidth_bps: 10000000000
    delay_ns: 1000
flows:
  - id: 0
    src: 0
    dst: 2
    size_bytes: 1234
    start_ns: 5000
`

func TestParseSpecFile_RoundTripsIntoValidSpec(t *testing.T) {
	spec, err := ParseSpecFile([]byte(sampleSpecYAML))
	require.NoError(t, err)
	require.Len(t, spec.Nodes, 3)
	require.Len(t, spec.Links, 2)
	require.Len(t, spec.Flows, 1)

	assert.Equal(t, NodeId(1), spec.Nodes[1].ID)
	assert.Equal(t, Switch, spec.Nodes[1].Kind)
	assert.Equal(t, BitsPerSec(10000000000), spec.Links[0].Bandwidth)
	assert.Equal(t, Nanosecs(1000), spec.Links[0].Delay)
	assert.Equal(t, Bytes(1234), spec.Flows[0].Size)
	assert.Equal(t, Nanosecs(5000), spec.Flows[0].Start)

	vs, err := Validate(spec)
	require.NoError(t, err)
	assert.Equal(t, 3, vs.Topology.NumNodes())
}

func TestParseSpecFile_UnknownNodeKindIsError(t *testing.T) {
	bad := `
nodes:
  - id: 0
    kind: router
`
	_, err := ParseSpecFile([]byte(bad))
	require.Error(t, err)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "InvalidNodeKind", specErr.Kind)
}

func TestParseSpecFile_MalformedYAMLIsError(t *testing.T) {
	_, err := ParseSpecFile([]byte("not: [valid yaml"))
	require.Error(t, err)
}
