package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"StockBalancer/internal/model"
	"StockBalancer/internal/notifier"
	"StockBalancer/internal/portfolio"
)

type rebalanceCmd struct {
	env   *Env
	file  string
	plain bool
}

func (*rebalanceCmd) Name() string     { return "rebalance" }
func (*rebalanceCmd) Synopsis() string { return "suggest trades for a portfolio file" }
func (*rebalanceCmd) Usage() string {
	return `stockbalancer rebalance [-p <portfolio.yaml>] [-plain]

  Reads stocks and a target allocation from a YAML portfolio file and prints
  the holdings table and the suggested trades. Stocks without prices in the
  file get them from the configured price source.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "p", "", "Portfolio file (defaults to portfolio.file from config).")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *rebalanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := c.file
	if path == "" {
		path = c.env.Config.Portfolio.File
	}
	stocks, alloc, _, err := c.env.loadPortfolio(path)
	if err != nil {
		fmt.Fprintln(c.env.Err, err)
		return subcommands.ExitFailure
	}

	report, err := portfolio.New(stocks, alloc).Report(model.TriggerManual, c.env.Config.Portfolio.Currency)
	if err != nil {
		fmt.Fprintln(c.env.Err, err)
		return subcommands.ExitFailure
	}

	if err := notifier.NewConsoleNotifier(c.env.Out, c.plain).Notify(ctx, report); err != nil {
		fmt.Fprintln(c.env.Err, err)
		return subcommands.ExitFailure
	}

	rec := c.env.openRecorder()
	defer rec.Close()
	record(rec, report)
	return subcommands.ExitSuccess
}
