package delaynet

import "fmt"

// LinkSimError reports a link-simulator transport, malformed-record, or
// internal failure (§6.3, §7). Fatal to the current cluster and thus to the
// orchestrator call — no partial success.
type LinkSimError struct {
	Name   string
	Reason string
}

func (e *LinkSimError) Error() string {
	return fmt.Sprintf("link sim %q: %s", e.Name, e.Reason)
}

// LinkSim is the boundary the core depends on for actually simulating one
// bottleneck link's queueing behavior (§6.3). Concrete implementations
// (a reference FIFO fluid model, an external ns-3 wrapper, ...) live in
// delaynet/linksim and register themselves via RegisterLinkSim.
type LinkSim interface {
	// Name identifies the implementation on the wire, so a worker can pick
	// the matching implementation for a WorkerParams request.
	Name() string
	// Simulate runs the link simulator over one LinkSimSpec and returns one
	// FctRecord per flow.
	Simulate(spec *LinkSimSpec) ([]FctRecord, error)
}

// linkSimRegistry maps a LinkSim's Name() to a constructor taking its
// configuration payload (§6.5's link_sim_config). Implementations register
// themselves from an init() in their own package (see delaynet/linksim),
// the same way the teacher's sim/kv and sim/latency packages wire their own
// constructors into the owning package without an import cycle.
var linkSimRegistry = make(map[string]func(config []byte) (LinkSim, error))

// RegisterLinkSim makes a LinkSim implementation available by name to
// NewLinkSim. Called from implementation packages' init().
func RegisterLinkSim(name string, factory func(config []byte) (LinkSim, error)) {
	linkSimRegistry[name] = factory
}

// NewLinkSim constructs a registered LinkSim by name. Workers treat an
// unknown name as fatal for the connection only (§4.9).
func NewLinkSim(name string, config []byte) (LinkSim, error) {
	factory, ok := linkSimRegistry[name]
	if !ok {
		return nil, &LinkSimError{Name: name, Reason: "unknown link simulator"}
	}
	return factory(config)
}
