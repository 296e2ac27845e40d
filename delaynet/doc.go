// Package delaynet estimates per-flow latency distributions for
// data-center networks without running a full packet-level simulation of
// the whole topology.
//
// # Reading Guide
//
// Start with these files to understand the pipeline:
//   - topology.go: validated directed multigraph of hosts/switches/channels
//   - routing.go: BFS-built next-hop table supporting ECMP
//   - flow.go: hashed path realization, turning a Network + flows into a SimNetwork
//   - linksimdesc.go: bottleneck-centric sub-topology extraction for one edge
//   - orchestrator.go: runs a LinkSim once per cluster representative, folds
//     results into a DelayNetwork
//   - query.go: samples a DelayNetwork for FCT/slowdown estimates
//
// # Architecture
//
// delaynet defines the domain types, the Spec/validation entrypoint, and the
// orchestration loop; concrete link-level simulators live in
// delaynet/linksim, clustering algorithms in delaynet/clustering, and the
// distributed worker protocol in delaynet/rpc. delaynet/linksim registers
// its link simulators from init() into a name-keyed registry
// (RegisterLinkSim/NewLinkSim), avoiding an import cycle between the
// interface owner and its implementations.
package delaynet
