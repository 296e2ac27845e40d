// Package rpc implements the distributed worker protocol (§4.9, §6.5): a
// single TCP connection carries exactly one length-framed request/response
// pair between an orchestrator and a worker.
package rpc

import (
	"bufio"
	"encoding/gob"
	"io"
	"net"

	"github.com/delaynet/delaynet"
)

// writeMessage gob-encodes v and writes it as a single length-prefixed
// frame (§6.5: "length-prefixed, compact binary serialization").
func writeMessage(w io.Writer, v interface{}) error {
	bw := bufio.NewWriter(w)
	enc := gob.NewEncoder(bw)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return bw.Flush()
}

// readMessage reads one gob-encoded frame from r into v.
func readMessage(r io.Reader, v interface{}) error {
	dec := gob.NewDecoder(r)
	return dec.Decode(v)
}

// closeWrite half-closes the write side of conn if it supports it, so the
// peer's read-to-EOF completes without the connection itself closing
// (§4.9: "writes a single length-prefixed serialized WorkerParams value,
// then half-closes the write side").
func closeWrite(conn net.Conn) error {
	type writeCloser interface {
		CloseWrite() error
	}
	if wc, ok := conn.(writeCloser); ok {
		return wc.CloseWrite()
	}
	return nil
}

// delaynet.WorkerParams and delaynet.WorkerResult are sent on the wire as
// they are; init registers the delaynet types they carry with gob.
func init() {
	gob.Register(delaynet.LinkSimDesc{})
	gob.Register(delaynet.Flow{})
	gob.Register(delaynet.FctRecord{})
}
