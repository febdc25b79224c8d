package sim

// Sample is one entry of the observable log: the per-orientation counts
// after measurement step Step (0-indexed within the measurement phase).
type Sample struct {
	Step       int64 `json:"step"`
	Horizontal int   `json:"n_horizontal"`
	Vertical   int   `json:"n_vertical"`
}

// N returns the total count of the sample.
func (s Sample) N() int { return s.Horizontal + s.Vertical }

// ObservableLog is the append-only record of sampled counts.
type ObservableLog struct {
	samples []Sample
}

// NewObservableLog creates an empty log with room for capacity samples.
func NewObservableLog(capacity int) *ObservableLog {
	return &ObservableLog{samples: make([]Sample, 0, capacity)}
}

// Record appends the lattice's current counts.
func (o *ObservableLog) Record(step int64, l *Lattice) {
	o.samples = append(o.samples, Sample{Step: step, Horizontal: l.nHorizontal, Vertical: l.nVertical})
}

// Len returns the number of samples.
func (o *ObservableLog) Len() int { return len(o.samples) }

// Samples returns a copy of the log.
func (o *ObservableLog) Samples() []Sample {
	out := make([]Sample, len(o.samples))
	copy(out, o.samples)
	return out
}

// Horizontal returns the N+ series.
func (o *ObservableLog) Horizontal() []int {
	out := make([]int, len(o.samples))
	for i, s := range o.samples {
		out[i] = s.Horizontal
	}
	return out
}

// Vertical returns the N− series.
func (o *ObservableLog) Vertical() []int {
	out := make([]int, len(o.samples))
	for i, s := range o.samples {
		out[i] = s.Vertical
	}
	return out
}
