package model

import (
	"fmt"
	"time"
)

// Action is the recommendation for a single stock.
type Action string

const (
	ActionBuy      Action = "buy"
	ActionSell     Action = "sell"
	ActionMaintain Action = "maintain"
)

// TriggerType indicates what started a rebalance run.
type TriggerType string

const (
	TriggerManual    TriggerType = "MANUAL"
	TriggerPrompt    TriggerType = "PROMPT"
	TriggerScheduled TriggerType = "SCHEDULED"
	TriggerCommand   TriggerType = "COMMAND"
)

// RebalanceAction is the rebalancer output for one stock.
type RebalanceAction struct {
	Stock    string `json:"stock"`
	Action   Action `json:"action"`
	Quantity int64  `json:"quantity"`
}

// Sentence renders the action the way the advisor reads it out.
// A zero quantity drops the count: "maintain the stocks of X".
func (a RebalanceAction) Sentence() string {
	if a.Quantity == 0 {
		return fmt.Sprintf("%s the stocks of %s", a.Action, a.Stock)
	}
	return fmt.Sprintf("%s %d stocks of %s", a.Action, a.Quantity, a.Stock)
}

// Holding is a point-in-time view of one stock inside a report.
type Holding struct {
	Name            string
	Quantity        float64
	Price           float64
	Value           float64
	CurrentFraction float64
	TargetFraction  float64
}

// Report bundles everything a rebalance run produced, for display and recording.
type Report struct {
	At         time.Time
	Trigger    TriggerType
	Currency   string
	TotalValue float64
	Holdings   []Holding
	Actions    []RebalanceAction
}
