package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"StockBalancer/internal/model"
	"StockBalancer/internal/notifier"
	"StockBalancer/internal/scheduler"
)

type watchCmd struct {
	env   *Env
	file  string
	now   bool
	plain bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh prices and rebalance on a schedule" }
func (*watchCmd) Usage() string {
	return `stockbalancer watch [-p <portfolio.yaml>] [-now] [-plain]

  Loads a portfolio file and, on every tick of schedule.watch_cron, appends
  a fresh price to each stock and sends the suggested trades to Telegram
  (when configured) or to the terminal. Telegram users can also send
  /rebalance and /portfolio. Stops on SIGINT or SIGTERM.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "p", "", "Portfolio file (defaults to portfolio.file from config).")
	f.BoolVar(&c.now, "now", false, "Rebalance once at start, before the first tick.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown when reporting to the terminal.")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.env.Config
	path := c.file
	if path == "" {
		path = cfg.Portfolio.File
	}
	stocks, alloc, col, err := c.env.loadPortfolio(path)
	if err != nil {
		fmt.Fprintln(c.env.Err, err)
		return subcommands.ExitFailure
	}
	log.Printf("[INFO] price source: %s", col.Source.Name())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var n scheduler.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		n = notifier.NewConsoleNotifier(c.env.Out, c.plain)
	}

	rec := c.env.openRecorder()
	defer rec.Close()

	sched := scheduler.NewScheduler(ctx, stocks, alloc, col, n, rec, cfg.Portfolio.Currency)
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		fmt.Fprintln(c.env.Err, err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if c.now {
		if _, err := sched.RunNow(model.TriggerManual); err != nil {
			log.Printf("[ERROR] initial rebalance: %v", err)
		}
	}

	log.Printf("[INFO] watching %d stocks on %q. Press Ctrl+C to stop.", len(stocks), cfg.Schedule.WatchCron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	return subcommands.ExitSuccess
}
