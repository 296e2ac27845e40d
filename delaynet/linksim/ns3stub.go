package linksim

import "github.com/delaynet/delaynet"

func init() {
	delaynet.RegisterLinkSim(NS3Name, newNS3Stub)
}

// NS3Name is the registered name reserved for a packet-level ns-3-backed
// simulator. The real implementation is an external collaborator (out of
// scope here, per the interface boundary at delaynet.LinkSim); this stub
// only reserves the name, and its Simulate returns an error whether or not
// a binary path is configured.
const NS3Name = "ns3"

type ns3Stub struct {
	binaryPath string
}

func newNS3Stub(config []byte) (delaynet.LinkSim, error) {
	return ns3Stub{binaryPath: string(config)}, nil
}

// Name implements delaynet.LinkSim.
func (ns3Stub) Name() string { return NS3Name }

// Simulate implements delaynet.LinkSim. The packet-level ns-3 wrapper
// itself is out of scope; selecting this simulator without wiring a real
// subprocess/backend is a configuration error at the worker.
func (s ns3Stub) Simulate(spec *delaynet.LinkSimSpec) ([]delaynet.FctRecord, error) {
	if s.binaryPath == "" {
		return nil, &delaynet.LinkSimError{Name: NS3Name, Reason: "no ns-3 binary configured"}
	}
	return nil, &delaynet.LinkSimError{Name: NS3Name, Reason: "packet-level ns-3 backend not implemented; external collaborator"}
}
