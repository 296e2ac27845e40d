package delaynet

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is a master seed identifying a reproducible run: the same
// key and configuration always yield the same query results and the same
// distributed work partitioning.
type SimulationKey int64

// NewSimulationKey constructs a SimulationKey from a raw seed.
func NewSimulationKey(seed int64) SimulationKey { return SimulationKey(seed) }

const (
	// SubsystemQuery is the RNG subsystem for query-time ECMP
	// re-randomization (§4.8). Uses the master seed directly so a bare
	// SimulationKey behaves like a single global seed for the common case
	// of one query engine per process.
	SubsystemQuery = "query"

	// SubsystemDistribute is the RNG subsystem for the distributed
	// orchestrator's representative-shuffling step (§4.6).
	SubsystemDistribute = "distribute"
)

// PartitionedRNG derives an independent, deterministically-seeded RNG per
// named subsystem from a single SimulationKey, so that unrelated sources of
// randomness (query-time path selection vs. distributed work shuffling)
// never perturb each other's sequences. Not safe for concurrent use, and
// ForSubsystem hands out one shared *rand.Rand per subsystem name.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG rooted at key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the cached RNG for the named subsystem, creating and
// seeding it on first use. The same name always returns the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	var seed int64
	if name == SubsystemQuery {
		seed = int64(p.key)
	} else {
		seed = int64(p.key) ^ fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey this PartitionedRNG was created from.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
