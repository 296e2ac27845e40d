package delaynet

import "fmt"

// NodeId is a dense, non-negative node identifier assigned by the caller.
// Node IDs must start at 0 and have no holes (§4.1).
type NodeId int

func (id NodeId) String() string { return fmt.Sprintf("n%d", int(id)) }

// FlowId is an opaque flow identifier. Uniqueness is not enforced at the
// spec layer (§4.10), but downstream flow assignment assumes it.
type FlowId int

func (id FlowId) String() string { return fmt.Sprintf("f%d", int(id)) }

// NodeKind distinguishes hosts (flow endpoints, exactly one incident link)
// from switches (routing-only, any number of links).
type NodeKind int

const (
	Host NodeKind = iota
	Switch
)

func (k NodeKind) String() string {
	switch k {
	case Host:
		return "host"
	case Switch:
		return "switch"
	default:
		return "unknown"
	}
}

// Node is a topology participant.
type Node struct {
	ID   NodeId
	Kind NodeKind
}

// NewHost constructs a host node.
func NewHost(id NodeId) Node { return Node{ID: id, Kind: Host} }

// NewSwitch constructs a switch node.
func NewSwitch(id NodeId) Node { return Node{ID: id, Kind: Switch} }
