package delaynet

import "gopkg.in/yaml.v3"

// SpecFile is the YAML-serializable form of a Spec (§6.1), the shape
// external loaders (CLI config files, workload generators) actually
// produce. Node kind and sizes/delays are expressed as plain scalars so the
// file format stays simulator-agnostic.
type SpecFile struct {
	Nodes []NodeFile `yaml:"nodes"`
	Links []LinkFile `yaml:"links"`
	Flows []FlowFile `yaml:"flows"`
}

// NodeFile is one YAML node entry. Kind is "host" or "switch".
type NodeFile struct {
	ID   int    `yaml:"id"`
	Kind string `yaml:"kind"`
}

// LinkFile is one YAML undirected link entry.
type LinkFile struct {
	A            int    `yaml:"a"`
	B            int    `yaml:"b"`
	BandwidthBps uint64 `yaml:"bandwidth_bps"`
	DelayNs      uint64 `yaml:"delay_ns"`
}

// FlowFile is one YAML flow entry.
type FlowFile struct {
	ID      int    `yaml:"id"`
	Src     int    `yaml:"src"`
	Dst     int    `yaml:"dst"`
	SizeB   uint64 `yaml:"size_bytes"`
	StartNs uint64 `yaml:"start_ns"`
}

// ParseSpecFile decodes a YAML document into a Spec ready for Validate.
// An unknown or misspelled node kind is not coerced: ToSpec returns a
// SpecError with Kind "InvalidNodeKind", and ParseSpecFile passes it on.
func ParseSpecFile(data []byte) (Spec, error) {
	var file SpecFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Spec{}, err
	}
	return file.ToSpec()
}

// ToSpec converts a decoded SpecFile into a Spec.
func (f SpecFile) ToSpec() (Spec, error) {
	nodes := make([]Node, len(f.Nodes))
	for i, n := range f.Nodes {
		kind, err := parseNodeKind(n.Kind)
		if err != nil {
			return Spec{}, err
		}
		nodes[i] = Node{ID: NodeId(n.ID), Kind: kind}
	}

	links := make([]Link, len(f.Links))
	for i, l := range f.Links {
		links[i] = NewLink(NodeId(l.A), NodeId(l.B), BitsPerSec(l.BandwidthBps), Nanosecs(l.DelayNs))
	}

	flows := make([]Flow, len(f.Flows))
	for i, fl := range f.Flows {
		flows[i] = Flow{
			ID:    FlowId(fl.ID),
			Src:   NodeId(fl.Src),
			Dst:   NodeId(fl.Dst),
			Size:  Bytes(fl.SizeB),
			Start: Nanosecs(fl.StartNs),
		}
	}

	return Spec{Nodes: nodes, Links: links, Flows: flows}, nil
}

func parseNodeKind(s string) (NodeKind, error) {
	switch s {
	case "host":
		return Host, nil
	case "switch":
		return Switch, nil
	default:
		return 0, &SpecError{Kind: "InvalidNodeKind", Err: errInvalidNodeKind(s)}
	}
}

type errInvalidNodeKind string

func (e errInvalidNodeKind) Error() string { return "unrecognized node kind: " + string(e) }
