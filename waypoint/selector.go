package waypoint

import (
	"errors"
	"math/rand/v2"
)

var ErrNoAlternateDestination = errors.New("no alternate destination")

// Selector picks the next destination, never returning the current one
type Selector struct {
	rng *rand.Rand
}

// NewSelector wraps a random source, nil seeds a fixed PCG
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 0))
	}
	return &Selector{rng: rng}
}

// NewSeededSelector creates a selector with a deterministic PCG stream
func NewSeededSelector(seed uint64) *Selector {
	return NewSelector(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// SelectNext samples uniformly from all entries not named like current
// Pure: the caller commits the result
func (s *Selector) SelectNext(current Waypoint, all []Waypoint) (Waypoint, error) {
	count := 0
	for _, w := range all {
		if !w.Is(current) {
			count++
		}
	}
	if count == 0 {
		return Waypoint{}, ErrNoAlternateDestination
	}

	pick := s.rng.IntN(count)
	for _, w := range all {
		if w.Is(current) {
			continue
		}
		if pick == 0 {
			return w, nil
		}
		pick--
	}
	// Unreachable: pick < count
	return Waypoint{}, ErrNoAlternateDestination
}
