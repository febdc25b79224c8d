package sim

import "math/rand"

// MoveKind identifies which trial move a step attempted.
type MoveKind int

const (
	MoveInsert MoveKind = iota
	MoveDelete
)

func (k MoveKind) String() string {
	if k == MoveInsert {
		return "insert"
	}
	return "delete"
}

// MoveOutcome is the result of a single trial move. Every outcome except
// Accepted leaves the lattice untouched.
type MoveOutcome int

const (
	Accepted MoveOutcome = iota
	// RejectedCollision: the candidate rod overlapped an occupied cell.
	RejectedCollision
	// RejectedAcceptance: the uniform draw failed the acceptance test.
	RejectedAcceptance
	// RejectedEmpty: deletion attempted on an empty lattice.
	RejectedEmpty
)

func (o MoveOutcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedCollision:
		return "rejected_collision"
	case RejectedAcceptance:
		return "rejected_acceptance"
	case RejectedEmpty:
		return "rejected_empty"
	default:
		return "unknown"
	}
}

// InsertionAcceptance returns α_ins = z·2M²/(N+1) for a lattice currently
// holding n rods. Values ≥ 1 mean certain acceptance.
func InsertionAcceptance(z float64, size, n int) float64 {
	return z * 2 * float64(size) * float64(size) / float64(n+1)
}

// DeletionAcceptance returns α_del = N/(2M²·z) for a lattice currently
// holding n rods.
func DeletionAcceptance(z float64, size, n int) float64 {
	return float64(n) / (2 * float64(size) * float64(size) * z)
}

// MoveStats counts trial moves by kind and outcome.
type MoveStats struct {
	InsertAttempts   int64 `json:"insert_attempts"`
	InsertAccepted   int64 `json:"insert_accepted"`
	InsertCollisions int64 `json:"insert_collisions"`
	DeleteAttempts   int64 `json:"delete_attempts"`
	DeleteAccepted   int64 `json:"delete_accepted"`
	DeleteEmpty      int64 `json:"delete_empty"`
}

func (s *MoveStats) record(kind MoveKind, outcome MoveOutcome) {
	if kind == MoveInsert {
		s.InsertAttempts++
		switch outcome {
		case Accepted:
			s.InsertAccepted++
		case RejectedCollision:
			s.InsertCollisions++
		}
		return
	}
	s.DeleteAttempts++
	switch outcome {
	case Accepted:
		s.DeleteAccepted++
	case RejectedEmpty:
		s.DeleteEmpty++
	}
}

// InsertRatio is the fraction of insertion attempts that were accepted.
func (s MoveStats) InsertRatio() float64 {
	if s.InsertAttempts == 0 {
		return 0
	}
	return float64(s.InsertAccepted) / float64(s.InsertAttempts)
}

// DeleteRatio is the fraction of deletion attempts that were accepted.
func (s MoveStats) DeleteRatio() float64 {
	if s.DeleteAttempts == 0 {
		return 0
	}
	return float64(s.DeleteAccepted) / float64(s.DeleteAttempts)
}

// Kernel performs GCMC trial moves at a fixed activity. It holds no lattice
// state of its own; every method takes the lattice it acts on.
//
// Thread-safety: NOT thread-safe. One Kernel per run.
type Kernel struct {
	activity float64
	rng      *rand.Rand
	Stats    MoveStats
}

// NewKernel creates a kernel drawing from rng at activity z.
func NewKernel(z float64, rng *rand.Rand) *Kernel {
	return &Kernel{activity: z, rng: rng}
}

// Activity returns z.
func (k *Kernel) Activity() float64 { return k.activity }

// Step performs one GCMC step: an insertion attempt or a deletion attempt,
// each with probability 1/2 regardless of N or z.
func (k *Kernel) Step(l *Lattice) (MoveKind, MoveOutcome) {
	kind := MoveDelete
	if k.rng.Float64() < 0.5 {
		kind = MoveInsert
	}
	var outcome MoveOutcome
	if kind == MoveInsert {
		outcome = k.AttemptInsert(l)
	} else {
		outcome = k.AttemptDelete(l)
	}
	k.Stats.record(kind, outcome)
	return kind, outcome
}

// AttemptInsert draws a uniform anchor and orientation and inserts a rod
// there with probability min(1, z·2M²/(N+1)) if it does not collide.
func (k *Kernel) AttemptInsert(l *Lattice) MoveOutcome {
	size := l.Size()
	alpha := InsertionAcceptance(k.activity, size, l.N())

	p := Particle{X: k.rng.Intn(size), Y: k.rng.Intn(size), Orientation: Vertical}
	if k.rng.Float64() < 0.5 {
		p.Orientation = Horizontal
	}
	if Collides(l.grid, p.Anchor(), p.Orientation, l.rodLength) {
		return RejectedCollision
	}
	if k.rng.Float64() >= alpha {
		return RejectedAcceptance
	}
	l.place(p)
	return Accepted
}

// AttemptDelete removes a uniformly chosen rod with probability
// min(1, N/(2M²·z)). An empty lattice rejects without consuming randomness.
func (k *Kernel) AttemptDelete(l *Lattice) MoveOutcome {
	n := l.N()
	if n == 0 {
		return RejectedEmpty
	}
	if k.rng.Float64() >= DeletionAcceptance(k.activity, l.Size(), n) {
		return RejectedAcceptance
	}
	l.remove(k.rng.Intn(n))
	return Accepted
}
