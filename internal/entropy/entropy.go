// Package entropy provides the injectable random source used by every
// stochastic code path in the simulation. Components never reach for an
// ambient global generator: they take a Source, so a run is reproducible
// from its seed and tests can script exact draw sequences.
package entropy

import "math/rand"

// Source yields uniform draws in [0, 1).
type Source interface {
	Float() float64
}

// Seeded is a deterministic Source backed by math/rand.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded creates a Source that replays the same draw sequence for the
// same seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *Seeded) Float() float64 {
	return s.rng.Float64()
}

// Shuffle permutes n elements using the source's underlying generator,
// so per-turn orderings are reproducible alongside every other draw.
func (s *Seeded) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Intn returns a uniform int in [0, n).
func (s *Seeded) Intn(n int) int {
	return s.rng.Intn(n)
}

// Sequence is a Source that replays a fixed list of draws, then falls
// back to repeating its final value. Tests use it to force a specific
// success/failure/multiplier branch.
type Sequence struct {
	draws []float64
	next  int
}

func NewSequence(draws ...float64) *Sequence {
	return &Sequence{draws: draws}
}

func (s *Sequence) Float() float64 {
	if len(s.draws) == 0 {
		return 0.5
	}
	if s.next >= len(s.draws) {
		return s.draws[len(s.draws)-1]
	}
	v := s.draws[s.next]
	s.next++
	return v
}
