// Package cli holds the stockbalancer subcommands.
package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/google/subcommands"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/config"
	"StockBalancer/internal/model"
	"StockBalancer/internal/pricing"
	"StockBalancer/internal/recorder"
)

// Env is what every command shares.
type Env struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
}

// Commands returns all subcommands bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&promptCmd{env: env},
		&rebalanceCmd{env: env},
		&exampleCmd{env: env},
		&watchCmd{env: env},
		&historyCmd{env: env},
	}
}

// newSource builds the price source from config. Static sources start from
// the given histories.
func (e *Env) newSource(histories map[string][]float64) (pricing.Source, error) {
	switch e.Config.Pricing.Source {
	case "static":
		return pricing.NewStaticSource(histories), nil
	default:
		return pricing.NewRandomSource(e.Config.Pricing.Seed, e.Config.Pricing.Min, e.Config.Pricing.Max)
	}
}

func (e *Env) newCollector(histories map[string][]float64) (*pricing.Collector, error) {
	src, err := e.newSource(histories)
	if err != nil {
		return nil, fmt.Errorf("init price source: %w", err)
	}
	return pricing.NewCollector(src, e.Config.Pricing.HistoryLength), nil
}

// openRecorder opens the SQLite run log, falling back to a no-op recorder
// when none is configured or it cannot be opened.
func (e *Env) openRecorder() recorder.Recorder {
	if e.Config.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(e.Config.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// loadPortfolio reads a portfolio file and fills missing prices from the
// configured source. The returned collector keeps serving those stocks.
func (e *Env) loadPortfolio(path string) ([]model.Stock, allocation.Map, *pricing.Collector, error) {
	pf, err := config.LoadPortfolio(path)
	if err != nil {
		return nil, nil, nil, err
	}
	col, err := e.newCollector(pf.Histories())
	if err != nil {
		return nil, nil, nil, err
	}
	stocks, alloc, err := pf.Build(col.HistoryFor)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("portfolio %s: %w", path, err)
	}
	return stocks, alloc, col, nil
}

func record(rec recorder.Recorder, r *model.Report) {
	if err := rec.RecordRun(recorder.NewRun(r)); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}
