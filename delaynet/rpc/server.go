package rpc

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/delaynet/delaynet"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delaynet_worker_requests_total",
		Help: "Total number of worker requests handled, by outcome.",
	}, []string{"outcome"})

	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "delaynet_worker_request_duration_seconds",
		Help:    "Time to simulate one worker request end to end.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// Server is a long-running worker process: it binds a TCP port, accepts
// connections, and simulates each request's descriptors with the named
// link simulator (§4.9).
type Server struct {
	listener net.Listener
	shutdown int32 // atomic flag; observed by the accept loop

	wg sync.WaitGroup
}

// Listen binds addr and returns a Server ready to Serve.
func Listen(addr string) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("delaynet/rpc: listen %s: %w", addr, err)
	}
	return &Server{listener: l}, nil
}

// Addr returns the server's bound address.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts connections until Shutdown is called; a graceful-shutdown
// signal flips the atomic flag, whose observation causes the accept loop to
// exit after the currently in-flight connections drain (§4.9).
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&s.shutdown) == 1 {
				s.wg.Wait()
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

// Shutdown flips the shutdown flag and closes the listener, causing Serve's
// accept loop to exit after draining in-flight connections.
func (s *Server) Shutdown() {
	atomic.StoreInt32(&s.shutdown, 1)
	_ = s.listener.Close()
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	timer := prometheus.NewTimer(requestDuration)
	defer timer.ObserveDuration()

	var params delaynet.WorkerParams
	if err := readMessage(conn, &params); err != nil {
		requestsTotal.WithLabelValues("read_error").Inc()
		logrus.WithError(err).Warn("delaynet/rpc: failed to read request")
		return
	}

	result, err := handleParams(params)
	if err != nil {
		requestsTotal.WithLabelValues("sim_error").Inc()
		logrus.WithError(err).WithField("link_sim", params.LinkSimName).Warn("delaynet/rpc: simulation failed")
		return
	}

	if err := writeMessage(conn, result); err != nil {
		requestsTotal.WithLabelValues("write_error").Inc()
		logrus.WithError(err).Warn("delaynet/rpc: failed to write response")
		return
	}
	requestsTotal.WithLabelValues("ok").Inc()
}

// handleParams dispatches one WorkerParams to the named link simulator,
// materializing each descriptor's flows from the request's own minimal
// flow set (§4.9). Workers treat an unknown link simulator name as fatal
// for the connection only, not for the worker process.
func handleParams(params delaynet.WorkerParams) (delaynet.WorkerResult, error) {
	sim, err := delaynet.NewLinkSim(params.LinkSimName, params.LinkSimConfig)
	if err != nil {
		return delaynet.WorkerResult{}, err
	}

	byID := make(map[delaynet.FlowId]delaynet.Flow, len(params.Flows))
	for _, f := range params.Flows {
		byID[f.ID] = f
	}

	results := make([]delaynet.EdgeRecords, 0, len(params.Descs))
	for _, desc := range params.Descs {
		spec, err := desc.MaterializeFlowsFrom(byID)
		if err != nil {
			return delaynet.WorkerResult{}, err
		}
		records, err := sim.Simulate(spec)
		if err != nil {
			return delaynet.WorkerResult{}, &delaynet.LinkSimError{Name: params.LinkSimName, Reason: err.Error()}
		}
		results = append(results, delaynet.EdgeRecords{EdgeIndex: desc.EdgeIndex, Records: records})
	}
	return delaynet.WorkerResult{Results: results}, nil
}
