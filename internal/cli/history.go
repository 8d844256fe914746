package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"StockBalancer/internal/notifier"
)

type historyCmd struct {
	env   *Env
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recorded rebalance suggestions" }
func (*historyCmd) Usage() string {
	return `stockbalancer history [-n <count>]

  Lists the most recent rebalance runs stored in the SQLite database,
  newest first. Requires database.sqlite_path (or SQLITE_PATH).
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Number of runs to show.")
}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.env.Config.Database.SQLitePath == "" {
		fmt.Fprintln(c.env.Err, "history needs database.sqlite_path to be set")
		return subcommands.ExitUsageError
	}
	rec := c.env.openRecorder()
	defer rec.Close()

	runs, err := rec.RecentRuns(c.limit)
	if err != nil {
		fmt.Fprintln(c.env.Err, err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(c.env.Out, notifier.FormatHistory(runs))
	return subcommands.ExitSuccess
}
