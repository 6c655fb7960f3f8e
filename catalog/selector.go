package catalog

import (
	"math/rand/v2"
	"sync"
)

// Selector picks one of n variants, returning an index in [0, n)
// Injected so flavor text choice is reproducible under test
type Selector interface {
	Select(n int) int
}

// SelectorFunc adapts a function to Selector
type SelectorFunc func(n int) int

// Select implements Selector
func (f SelectorFunc) Select(n int) int {
	return f(n)
}

// FirstSelector always picks the first variant
var FirstSelector Selector = SelectorFunc(func(int) int { return 0 })

// RandomSelector picks uniformly using its own PCG source
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector creates a selector seeded from the runtime's random source
func NewRandomSelector() *RandomSelector {
	return NewSeededSelector(rand.Uint64(), rand.Uint64())
}

// NewSeededSelector creates a deterministic selector
func NewSeededSelector(seed1, seed2 uint64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Select implements Selector
func (s *RandomSelector) Select(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
