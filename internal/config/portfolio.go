package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/model"
)

// StockEntry is one stock as written in a portfolio file.
type StockEntry struct {
	Name     string    `yaml:"name"`
	Quantity float64   `yaml:"quantity"`
	Prices   []float64 `yaml:"prices,omitempty"`
}

// PortfolioFile is the YAML input for the rebalance and watch commands.
type PortfolioFile struct {
	Stocks     []StockEntry       `yaml:"stocks"`
	Allocation map[string]float64 `yaml:"allocation"`
}

// LoadPortfolio reads a portfolio file.
func LoadPortfolio(path string) (*PortfolioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	var pf PortfolioFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse portfolio %s: %w", path, err)
	}
	return &pf, nil
}

// Histories returns the prices written in the file, keyed by stock name.
func (pf *PortfolioFile) Histories() map[string][]float64 {
	out := make(map[string][]float64, len(pf.Stocks))
	for _, e := range pf.Stocks {
		if len(e.Prices) > 0 {
			out[strings.TrimSpace(e.Name)] = e.Prices
		}
	}
	return out
}

// Build validates the file and turns it into stocks and an allocation.
// fill is called for every stock that has no prices in the file.
func (pf *PortfolioFile) Build(fill func(name string) ([]float64, error)) ([]model.Stock, allocation.Map, error) {
	if len(pf.Stocks) == 0 {
		return nil, nil, fmt.Errorf("portfolio has no stocks")
	}
	seen := make(map[string]bool, len(pf.Stocks))
	names := make(map[string]bool, len(pf.Stocks))
	stocks := make([]model.Stock, 0, len(pf.Stocks))
	for i, e := range pf.Stocks {
		name := strings.TrimSpace(e.Name)
		key := strings.ToLower(name)
		if name != "" && seen[key] {
			return nil, nil, fmt.Errorf("stock #%d: name %q must be unique", i+1, name)
		}
		seen[key] = true

		prices := e.Prices
		if len(prices) == 0 && name != "" && fill != nil {
			h, err := fill(name)
			if err != nil {
				return nil, nil, fmt.Errorf("stock #%d: %w", i+1, err)
			}
			prices = h
		}
		s, err := model.NewStock(name, e.Quantity, prices)
		if err != nil {
			return nil, nil, fmt.Errorf("stock #%d: %w", i+1, err)
		}
		stocks = append(stocks, s)
		names[s.Name] = true
	}

	alloc, err := allocation.Build(pf.Allocation)
	if err != nil {
		return nil, nil, err
	}
	for name := range alloc {
		if !names[name] {
			return nil, nil, fmt.Errorf("%w: %q is not in the portfolio", allocation.ErrInvalidAllocation, name)
		}
	}
	return stocks, alloc, nil
}
