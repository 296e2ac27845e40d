package delaynet

import "fmt"

// Spec is the raw, unvalidated external input (§6.1): a topology and a
// flow list as loaded from whatever external source (YAML config, workload
// generator, ...) produced them.
type Spec struct {
	Nodes []Node
	Links []Link
	Flows []Flow
}

// SpecError reports a spec validation failure (§4.10, §7): fatal, no
// recovery.
type SpecError struct {
	Kind string // "InvalidFlowSrc", "InvalidFlowDst", "InvalidNodeKind", or "Topology"
	Flow FlowId
	Node NodeId
	Err  error // set for "Topology" (the TopologyError) and "InvalidNodeKind"
}

func (e *SpecError) Error() string {
	switch e.Kind {
	case "InvalidFlowSrc":
		return fmt.Sprintf("flow %s: src %s is not a declared host", e.Flow, e.Node)
	case "InvalidFlowDst":
		return fmt.Sprintf("flow %s: dst %s is not a declared host", e.Flow, e.Node)
	default:
		return fmt.Sprintf("invalid spec: %v", e.Err)
	}
}

func (e *SpecError) Unwrap() error { return e.Err }

// ValidSpec is a Spec that has passed validate: its Topology has been
// constructed and every flow's endpoints are confirmed host nodes.
type ValidSpec struct {
	Topology *Topology
	Flows    []Flow
}

// Validate checks a Spec against §4.10's rules and returns a ValidSpec:
// the topology must satisfy §4.1, and every flow's src/dst must name a
// declared host node. Flow ID uniqueness is not checked here — downstream
// flow assignment tolerates duplicates, but treats IDs as if they were
// unique when building per-channel flow lists.
func Validate(spec Spec) (*ValidSpec, error) {
	topo, err := NewTopology(spec.Nodes, spec.Links)
	if err != nil {
		return nil, &SpecError{Kind: "Topology", Err: err}
	}

	for _, f := range spec.Flows {
		srcNode, ok := topo.Node(f.Src)
		if !ok || srcNode.Kind != Host {
			return nil, &SpecError{Kind: "InvalidFlowSrc", Flow: f.ID, Node: f.Src}
		}
		dstNode, ok := topo.Node(f.Dst)
		if !ok || dstNode.Kind != Host {
			return nil, &SpecError{Kind: "InvalidFlowDst", Flow: f.ID, Node: f.Dst}
		}
	}

	return &ValidSpec{Topology: topo, Flows: spec.Flows}, nil
}

// RunOpts bundles everything Run needs beyond the validated spec itself.
type RunOpts struct {
	Sim SimOpts
}

// Run executes the full pipeline end to end (§4): builds routes, realizes
// flows onto the network, runs the simulation orchestrator, and returns a
// queryable DelayNetwork.
func Run(spec *ValidSpec, opts RunOpts) (*DelayNetwork, error) {
	routes := BuildRoutes(spec.Topology)
	sn := BuildSimNetwork(spec.Topology, routes, spec.Flows)
	return IntoDelays(sn, opts.Sim)
}
