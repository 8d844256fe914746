// Package portfolio computes rebalancing suggestions for a set of holdings.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/model"
)

var (
	// ErrZeroValuePortfolio is returned when the holdings are worth nothing,
	// so no share of the total can be computed.
	ErrZeroValuePortfolio = errors.New("portfolio has zero total value")
	// ErrNonPositivePrice is returned when a stock in a valued portfolio has no usable price.
	ErrNonPositivePrice = errors.New("stock has a non-positive current price")
	// ErrNonFiniteValue is returned when quantities or prices make the total infinite or NaN.
	ErrNonFiniteValue = errors.New("portfolio total value is not finite")
)

// Portfolio holds the stocks and their target allocation. Rebalance never mutates either.
type Portfolio struct {
	Stocks     []model.Stock
	Allocation allocation.Map
}

// New creates a Portfolio.
func New(stocks []model.Stock, alloc allocation.Map) *Portfolio {
	return &Portfolio{Stocks: stocks, Allocation: alloc}
}

// TotalValue sums quantity times current price across all stocks.
func (p *Portfolio) TotalValue() float64 {
	total := 0.0
	for i := range p.Stocks {
		total += p.Stocks[i].CurrentPrice() * p.Stocks[i].Quantity
	}
	return total
}

// Rebalance returns one action per stock, in stock order, that moves each
// holding toward its target fraction of the total value at current prices.
func (p *Portfolio) Rebalance() ([]model.RebalanceAction, error) {
	total := p.TotalValue()
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFiniteValue, total)
	}
	if total == 0 {
		return nil, ErrZeroValuePortfolio
	}

	actions := make([]model.RebalanceAction, 0, len(p.Stocks))
	for i := range p.Stocks {
		s := &p.Stocks[i]
		delta, err := p.quantityDifferenceFromTarget(s, total)
		if err != nil {
			return nil, err
		}
		actions = append(actions, model.RebalanceAction{
			Stock:    s.Name,
			Action:   stockAction(delta),
			Quantity: int64(roundHalfUp(math.Abs(delta))),
		})
	}
	return actions, nil
}

// Report runs Rebalance and captures the holdings it was computed from.
func (p *Portfolio) Report(trigger model.TriggerType, currency string) (*model.Report, error) {
	actions, err := p.Rebalance()
	if err != nil {
		return nil, err
	}
	total := p.TotalValue()
	holdings := make([]model.Holding, len(p.Stocks))
	for i := range p.Stocks {
		s := &p.Stocks[i]
		value := s.Value()
		holdings[i] = model.Holding{
			Name:            s.Name,
			Quantity:        s.Quantity,
			Price:           s.CurrentPrice(),
			Value:           value,
			CurrentFraction: value / total,
			TargetFraction:  p.Allocation.Target(s.Name),
		}
	}
	return &model.Report{
		At:         time.Now(),
		Trigger:    trigger,
		Currency:   currency,
		TotalValue: total,
		Holdings:   holdings,
		Actions:    actions,
	}, nil
}

// quantityDifferenceFromTarget is the signed, fractional number of shares
// separating s from its target value.
func (p *Portfolio) quantityDifferenceFromTarget(s *model.Stock, total float64) (float64, error) {
	price := s.CurrentPrice()
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s at %v", ErrNonPositivePrice, s.Name, price)
	}
	target := p.Allocation.Target(s.Name)
	stockValue := price * s.Quantity

	var targetValue float64
	if stockValue == 0 {
		targetValue = total * target
	} else {
		// Kept as value*target/share rather than total*target: the rounding of
		// this path is what callers compare against.
		allocationNow := stockValue / total
		targetValue = stockValue * target / allocationNow
	}
	return (targetValue - stockValue) / price, nil
}

func stockAction(delta float64) model.Action {
	rounded := roundHalfUp(delta)
	switch {
	case rounded > 0:
		return model.ActionBuy
	case rounded < 0:
		return model.ActionSell
	default:
		return model.ActionMaintain
	}
}

// roundHalfUp rounds halves toward positive infinity: 2.5 -> 3, -2.5 -> -2.
// Adding 0.5 before flooring would be off for 0.49999999999999994 and for
// odd integers above 2^52.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return f
}
