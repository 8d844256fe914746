package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidStock is returned when a stock definition cannot be used.
var ErrInvalidStock = errors.New("invalid stock")

// Stock is a holding: how many shares of Name are owned and the prices seen so far.
type Stock struct {
	Name         string
	Quantity     float64
	PriceHistory []float64
}

// NewStock validates and builds a Stock. The history is copied.
func NewStock(name string, quantity float64, history []float64) (Stock, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Stock{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidStock)
	}
	if !finite(quantity) || quantity <= 0 {
		return Stock{}, fmt.Errorf("%w: quantity of %q must be positive, got %v", ErrInvalidStock, name, quantity)
	}
	if len(history) == 0 {
		return Stock{}, fmt.Errorf("%w: %q has no price history", ErrInvalidStock, name)
	}
	for _, p := range history {
		if !finite(p) || p <= 0 {
			return Stock{}, fmt.Errorf("%w: %q has non-positive price %v", ErrInvalidStock, name, p)
		}
	}
	return Stock{
		Name:         name,
		Quantity:     quantity,
		PriceHistory: append([]float64(nil), history...),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// CurrentPrice returns the latest known price, or 0 when there is no history.
func (s *Stock) CurrentPrice() float64 {
	if len(s.PriceHistory) == 0 {
		return 0
	}
	return s.PriceHistory[len(s.PriceHistory)-1]
}

// AppendPrice records a newer price; it becomes the current price.
func (s *Stock) AppendPrice(price float64) {
	s.PriceHistory = append(s.PriceHistory, price)
}

// Value is quantity times current price.
func (s *Stock) Value() float64 {
	return s.CurrentPrice() * s.Quantity
}
