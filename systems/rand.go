package systems

// Rand is the uniform random source used for wander jitter, food spawning and
// effect particles. *math/rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// SequenceRand replays a fixed list of samples, wrapping around at the end.
// It makes ticks reproducible in tests and calibration runs.
type SequenceRand struct {
	Values []float64
	pos    int
}

// Float64 returns the next value in the sequence, or 0.5 when empty.
func (s *SequenceRand) Float64() float64 {
	if len(s.Values) == 0 {
		return 0.5
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}
