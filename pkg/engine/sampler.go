package engine

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Sampler draws uniform samples in [0,1) for outcome selection.
type Sampler interface {
	Float64() float64
}

// RandSampler is a Sampler backed by a PCG source. It is safe for
// concurrent use.
type RandSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSampler seeds a sampler. A zero seed uses the current time.
func NewRandSampler(seed uint64) *RandSampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandSampler) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// FixedSampler replays a fixed sequence of samples, cycling when exhausted.
// Used in tests and for deterministic replays.
type FixedSampler struct {
	Samples []float64
	next    int
}

func (s *FixedSampler) Float64() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	v := s.Samples[s.next%len(s.Samples)]
	s.next++
	return v
}
