package recorder

import (
	"time"

	"StockBalancer/internal/model"
)

// Run is one recorded rebalance: what the portfolio looked like and what was suggested.
type Run struct {
	ID         string
	At         time.Time
	Trigger    model.TriggerType
	Currency   string
	TotalValue float64
	Holdings   []model.Holding
	Actions    []model.RebalanceAction
}

// NewRun copies a report into a Run with a fresh ID.
func NewRun(r *model.Report) *Run {
	return &Run{
		ID:         newID(),
		At:         r.At,
		Trigger:    r.Trigger,
		Currency:   r.Currency,
		TotalValue: r.TotalValue,
		Holdings:   append([]model.Holding(nil), r.Holdings...),
		Actions:    append([]model.RebalanceAction(nil), r.Actions...),
	}
}

// Recorder keeps a log of rebalance suggestions.
type Recorder interface {
	RecordRun(run *Run) error
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(limit int) ([]Run, error)
	Close() error
}
