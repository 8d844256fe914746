package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/model"
	"StockBalancer/internal/notifier"
	"StockBalancer/internal/portfolio"
)

type exampleCmd struct {
	env *Env
}

func (*exampleCmd) Name() string     { return "example" }
func (*exampleCmd) Synopsis() string { return "rebalance a built-in sample portfolio" }
func (*exampleCmd) Usage() string {
	return `stockbalancer example

  Builds META (10 shares) and APPL (15 shares) with prices from the price
  source and MSFT (7 shares) at 4, 5, 12, targets 40/45/15 and prints the
  suggested trades.
`
}

func (*exampleCmd) SetFlags(*flag.FlagSet) {}

func (c *exampleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.run()
	if err != nil {
		fmt.Fprintln(c.env.Err, err)
		return subcommands.ExitFailure
	}
	rec := c.env.openRecorder()
	defer rec.Close()
	record(rec, report)
	return subcommands.ExitSuccess
}

func (c *exampleCmd) run() (*model.Report, error) {
	col, err := c.env.newCollector(map[string][]float64{
		"META": {12, 14},
		"APPL": {8, 9},
	})
	if err != nil {
		return nil, err
	}

	var stocks []model.Stock
	for _, e := range []struct {
		name     string
		quantity float64
		prices   []float64
	}{
		{"META", 10, nil},
		{"APPL", 15, nil},
		{"MSFT", 7, []float64{4, 5, 12}},
	} {
		prices := e.prices
		if prices == nil {
			if prices, err = col.HistoryFor(e.name); err != nil {
				return nil, err
			}
		}
		s, err := model.NewStock(e.name, e.quantity, prices)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}

	alloc, err := allocation.Build(map[string]float64{"META": 0.4, "APPL": 0.45, "MSFT": 0.15})
	if err != nil {
		return nil, err
	}

	out := c.env.Out
	fmt.Fprintln(out, "=== Stocks ===")
	for _, s := range stocks {
		fmt.Fprintf(out, "%s - Quantity: %v, Price History: %s\n", s.Name, s.Quantity, joinPrices(s.PriceHistory))
	}
	fmt.Fprintln(out, "\n=== Allocation ===")
	fmt.Fprint(out, notifier.FormatAllocation([]string{"META", "APPL", "MSFT"}, alloc))

	report, err := portfolio.New(stocks, alloc).Report(model.TriggerManual, c.env.Config.Portfolio.Currency)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "\n%s", notifier.FormatAdvice(report.Actions))
	return report, nil
}

func joinPrices(prices []float64) string {
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = fmt.Sprint(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
