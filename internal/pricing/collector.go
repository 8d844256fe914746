package pricing

import (
	"fmt"
	"log"

	"StockBalancer/internal/model"
)

// Collector fills in and refreshes stock prices from a Source.
type Collector struct {
	Source        Source
	HistoryLength int
}

// NewCollector creates a new Collector.
func NewCollector(source Source, historyLength int) *Collector {
	if historyLength <= 0 {
		historyLength = 2
	}
	return &Collector{Source: source, HistoryLength: historyLength}
}

// HistoryFor returns prices for a stock entered without any.
func (c *Collector) HistoryFor(symbol string) ([]float64, error) {
	h, err := c.Source.History(symbol, c.HistoryLength)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	return h, nil
}

// Refresh appends the next price to every stock. A stock whose price cannot
// be fetched keeps its history; the first such error is returned after all
// stocks have been tried.
func (c *Collector) Refresh(stocks []model.Stock) error {
	var firstErr error
	for i := range stocks {
		s := &stocks[i]
		p, err := c.Source.Next(s.Name, s.CurrentPrice())
		if err == nil && p <= 0 {
			err = fmt.Errorf("non-positive price %v", p)
		}
		if err != nil {
			log.Printf("[WARN] refresh %s from %s: %v, keeping %.2f", s.Name, c.Source.Name(), err, s.CurrentPrice())
			if firstErr == nil {
				firstErr = fmt.Errorf("refresh %s: %w", s.Name, err)
			}
			continue
		}
		s.AppendPrice(p)
	}
	return firstErr
}
