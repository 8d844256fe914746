package pricing

import (
	"fmt"
	"sync"
)

// StaticSource serves fixed histories. Prices never move: Next repeats the
// last known price. Useful for portfolio files that carry their own prices
// and for tests.
type StaticSource struct {
	mu        sync.RWMutex
	histories map[string][]float64
}

// NewStaticSource creates a StaticSource from per-symbol histories.
func NewStaticSource(histories map[string][]float64) *StaticSource {
	s := &StaticSource{histories: make(map[string][]float64, len(histories))}
	for sym, h := range histories {
		s.histories[sym] = append([]float64(nil), h...)
	}
	return s
}

func (s *StaticSource) Name() string { return "static" }

// Set replaces the history for symbol.
func (s *StaticSource) Set(symbol string, history []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[symbol] = append([]float64(nil), history...)
}

// History returns the last n known prices, or all of them when fewer are known.
func (s *StaticSource) History(symbol string, n int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.histories[symbol]
	if !ok || len(h) == 0 {
		return nil, fmt.Errorf("static source: no prices for %q", symbol)
	}
	if n > 0 && len(h) > n {
		h = h[len(h)-n:]
	}
	return append([]float64(nil), h...), nil
}

func (s *StaticSource) Next(symbol string, last float64) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.histories[symbol]; ok && len(h) > 0 {
		return h[len(h)-1], nil
	}
	if last > 0 {
		return last, nil
	}
	return 0, fmt.Errorf("static source: no prices for %q", symbol)
}
