package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"StockBalancer/internal/prompt"
)

type promptCmd struct {
	env *Env
}

func (*promptCmd) Name() string     { return "prompt" }
func (*promptCmd) Synopsis() string { return "enter stocks and a target allocation interactively" }
func (*promptCmd) Usage() string {
	return `stockbalancer prompt

  Asks for each stock's name, quantity and optional price history, then for
  the target allocation of every stock, and prints what to buy and sell.
  Stocks entered without prices get them from the configured price source.
`
}

func (*promptCmd) SetFlags(*flag.FlagSet) {}

func (p *promptCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	col, err := p.env.newCollector(nil)
	if err != nil {
		fmt.Fprintln(p.env.Err, err)
		return subcommands.ExitFailure
	}

	report, err := prompt.NewSession(p.env.In, p.env.Out, col, p.env.Config.Portfolio.Currency).Run()
	if err != nil {
		fmt.Fprintln(p.env.Err, err)
		return subcommands.ExitFailure
	}
	if report == nil {
		return subcommands.ExitSuccess
	}

	rec := p.env.openRecorder()
	defer rec.Close()
	record(rec, report)
	return subcommands.ExitSuccess
}
