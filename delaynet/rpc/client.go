package rpc

import (
	"fmt"
	"net"
	"time"

	"github.com/delaynet/delaynet"
)

// Client dispatches WorkerParams requests to remote workers over TCP,
// implementing delaynet.Dispatcher (§4.9, §6.5).
type Client struct {
	// DialTimeout bounds the initial connection attempt; zero means no
	// timeout.
	DialTimeout time.Duration
}

// Dispatch implements delaynet.Dispatcher: opens a connection, writes the
// request, half-closes, and reads the response to EOF.
func (c Client) Dispatch(addr string, params delaynet.WorkerParams) (delaynet.WorkerResult, error) {
	dialer := net.Dialer{Timeout: c.DialTimeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return delaynet.WorkerResult{}, &delaynet.LinkSimError{Name: params.LinkSimName, Reason: fmt.Sprintf("dial %s: %v", addr, err)}
	}
	defer conn.Close()

	if err := writeMessage(conn, params); err != nil {
		return delaynet.WorkerResult{}, &delaynet.LinkSimError{Name: params.LinkSimName, Reason: fmt.Sprintf("write request: %v", err)}
	}
	if err := closeWrite(conn); err != nil {
		return delaynet.WorkerResult{}, &delaynet.LinkSimError{Name: params.LinkSimName, Reason: fmt.Sprintf("half-close: %v", err)}
	}

	var result delaynet.WorkerResult
	if err := readMessage(conn, &result); err != nil {
		return delaynet.WorkerResult{}, &delaynet.LinkSimError{Name: params.LinkSimName, Reason: fmt.Sprintf("read response: %v", err)}
	}
	return result, nil
}
