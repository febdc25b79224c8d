package sim

import (
	"hash/fnv"
	"math/rand"
	"strconv"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible run.
// Two runs with the same SimulationKey and identical RunParams
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

// SubsystemMoves is the RNG subsystem driving a single run's moves.
// Uses the master seed directly so `rodsim run --seed N` is reproducible
// without knowing the derivation scheme.
const SubsystemMoves = "moves"

// SubsystemActivity returns the subsystem name for the run at activity z
// inside a sweep. Each activity gets its own stream.
func SubsystemActivity(z float64) string {
	return "activity_" + strconv.FormatFloat(z, 'g', -1, 64)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemMoves: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Derive seeds on one goroutine, then hand
// each run its own *rand.Rand.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := newRandFromSeed(p.SeedFor(name))
	p.subsystems[name] = rng
	return rng
}

// SeedFor returns the derived seed for a subsystem without creating an RNG.
// Sweeps use it to hand plain seeds to worker goroutines.
func (p *PartitionedRNG) SeedFor(name string) int64 {
	if name == SubsystemMoves {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// newRandFromSeed is the single place a generator is built.
func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
