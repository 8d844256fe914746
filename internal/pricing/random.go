package pricing

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// RandomSource draws whole-number prices uniformly from [Min, Max].
// It stands in for a market when the user has no price history to enter.
type RandomSource struct {
	Min, Max int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a RandomSource. The same seed yields the same prices.
func NewRandomSource(seed uint64, lo, hi int) (*RandomSource, error) {
	if lo <= 0 {
		return nil, errors.New("random source: min price must be positive")
	}
	if hi < lo {
		return nil, errors.New("random source: max price must be >= min")
	}
	return &RandomSource{
		Min: lo,
		Max: hi,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

func (r *RandomSource) Name() string { return "random" }

func (r *RandomSource) History(_ string, n int) ([]float64, error) {
	if n <= 0 {
		return nil, errors.New("random source: history length must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = r.draw()
	}
	return prices, nil
}

func (r *RandomSource) Next(_ string, _ float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draw(), nil
}

func (r *RandomSource) draw() float64 {
	return float64(r.Min + r.rng.IntN(r.Max-r.Min+1))
}
