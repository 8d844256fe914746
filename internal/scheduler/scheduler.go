package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/model"
	"StockBalancer/internal/notifier"
	"StockBalancer/internal/portfolio"
	"StockBalancer/internal/pricing"
	"StockBalancer/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Notifier delivers a rebalance report.
//
//go:generate mockgen -package=scheduler -destination=mock_notifier_test.go -source=scheduler.go Notifier
type Notifier interface {
	Notify(ctx context.Context, r *model.Report) error
}

// Scheduler refreshes prices and re-runs the rebalance on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *pricing.Collector
	Notifier  Notifier
	Recorder  recorder.Recorder
	Currency  string
	Ctx       context.Context

	mu         sync.Mutex
	stocks     []model.Stock
	allocation allocation.Map
}

// NewScheduler creates a new Scheduler watching stocks. The stocks are copied.
func NewScheduler(ctx context.Context, stocks []model.Stock, alloc allocation.Map, col *pricing.Collector, n Notifier, rec recorder.Recorder, currency string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Notifier:   n,
		Recorder:   rec,
		Currency:   currency,
		Ctx:        ctx,
		stocks:     copyStocks(stocks),
		allocation: alloc,
	}
}

// Register adds the watch task on the given cron spec (seconds field included).
func (s *Scheduler) Register(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow rebalances at current prices without refreshing them.
func (s *Scheduler) RunNow(trigger model.TriggerType) (*model.Report, error) {
	return s.run(trigger, false)
}

// Stocks returns a snapshot of the watched stocks.
func (s *Scheduler) Stocks() []model.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStocks(s.stocks)
}

func (s *Scheduler) watchTask() {
	log.Println("[INFO] running watch task")
	if _, err := s.run(model.TriggerScheduled, true); err != nil {
		log.Printf("[ERROR] watch task: %v", err)
	}
}

func (s *Scheduler) run(trigger model.TriggerType, refresh bool) (*model.Report, error) {
	report, err := s.rebalance(trigger, refresh)
	if err != nil {
		return nil, err
	}

	if err := s.Notifier.Notify(s.Ctx, report); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
	if err := s.Recorder.RecordRun(recorder.NewRun(report)); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	return report, nil
}

func (s *Scheduler) rebalance(trigger model.TriggerType, refresh bool) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if refresh {
		if err := s.Collector.Refresh(s.stocks); err != nil {
			log.Printf("[WARN] price refresh incomplete: %v", err)
		}
	}
	report, err := portfolio.New(copyStocks(s.stocks), s.allocation).Report(trigger, s.Currency)
	if err != nil {
		return nil, fmt.Errorf("rebalance: %w", err)
	}
	return report, nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	switch strings.ToLower(command) {
	case "/rebalance":
		if _, err := s.run(model.TriggerCommand, false); err != nil {
			return fmt.Sprintf("❌ rebalance failed: %v", err)
		}
		return ""
	case "/portfolio":
		return s.formatPortfolio()
	default:
		return "Available commands:\n• /rebalance\n• /portfolio"
	}
}

func (s *Scheduler) formatPortfolio() string {
	var b strings.Builder
	b.WriteString("📦 <b>Portfolio</b>\n\n")
	for _, st := range s.Stocks() {
		b.WriteString(fmt.Sprintf("%s: %v @ %s (target %s)\n",
			html.EscapeString(st.Name), st.Quantity,
			notifier.FormatMoney(st.CurrentPrice(), s.Currency),
			notifier.FormatPercent(s.allocation.Target(st.Name))))
	}
	return b.String()
}

func copyStocks(stocks []model.Stock) []model.Stock {
	out := make([]model.Stock, len(stocks))
	for i, st := range stocks {
		out[i] = st
		out[i].PriceHistory = append([]float64(nil), st.PriceHistory...)
	}
	return out
}
