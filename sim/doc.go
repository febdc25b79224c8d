// Package sim provides the grand canonical Monte Carlo engine for hard rods
// on a periodic square lattice.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - lattice.go: Lattice state (occupancy grid, particle registry, cached counts)
//   - collision.go: Span computation with wraparound and the collision test
//   - moves.go: Insertion and deletion moves with their acceptance rules
//   - simulator.go: The thermalization/measurement driver and run result
//
// # Architecture
//
// The sim package is single-threaded: one Simulator owns one Lattice and one
// *rand.Rand. Everything around it lives in sub-packages:
//   - sim/sweep/: Parallel runs over a list of activities
//   - sim/results/: Flat-file persistence and the SQLite run index
//   - sim/analysis/: Order parameter, packing density, error estimates
//   - sim/figures/: PNG charts of series, configurations and histograms
//
// # Acceptance Rules
//
// Each step attempts an insertion or a deletion with probability 1/2.
// Insertion is accepted with min(1, z·2M²/(N+1)) when the rod fits, deletion
// with min(1, N/(2M²·z)). The N+1 / N pair is the detailed-balance pair for
// the grand canonical ensemble and must not be symmetrized.
package sim
