package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaynet/delaynet"
	_ "github.com/delaynet/delaynet/linksim"
)

func TestServeAndDispatch_RoundTripsOneEdge(t *testing.T) {
	server, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Shutdown()

	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve() }()

	desc := &delaynet.LinkSimDesc{
		EdgeIndex: delaynet.EdgeKey{Src: 0, Dst: 1},
		Bottleneck: delaynet.LinkSimLink{
			From: 0, To: 1,
			TotalBandwidth:     delaynet.BitsPerSecFromGbps(10),
			AvailableBandwidth: delaynet.BitsPerSecFromGbps(10),
			Delay:              1000,
		},
		Nodes: []delaynet.LinkSimNode{
			{ID: 0, Role: delaynet.RoleSource},
			{ID: 1, Role: delaynet.RoleDestination},
		},
		Flows: []delaynet.FlowId{0},
	}
	params := delaynet.WorkerParams{
		LinkSimName: "fifo",
		Descs:       []*delaynet.LinkSimDesc{desc},
		Flows:       []delaynet.Flow{{ID: 0, Src: 0, Dst: 1, Size: 1000, Start: 0}},
	}

	client := Client{}
	result, err := client.Dispatch(server.Addr().String(), params)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, delaynet.EdgeKey{Src: 0, Dst: 1}, result.Results[0].EdgeIndex)
	require.Len(t, result.Results[0].Records, 1)
	assert.Equal(t, delaynet.Bytes(1000), result.Results[0].Records[0].Size)

	server.Shutdown()
	<-serveDone
}

func TestDispatch_UnknownLinkSimIsError(t *testing.T) {
	server, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Shutdown()
	go server.Serve()

	params := delaynet.WorkerParams{LinkSimName: "does-not-exist"}
	client := Client{}
	_, err = client.Dispatch(server.Addr().String(), params)
	// The server closes the connection without a response on a handling
	// error, so the client observes a read failure.
	require.Error(t, err)
}

func TestDispatch_DialFailureIsError(t *testing.T) {
	client := Client{}
	_, err := client.Dispatch("127.0.0.1:1", delaynet.WorkerParams{})
	require.Error(t, err)
}
