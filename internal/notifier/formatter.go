package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/model"
	"StockBalancer/internal/recorder"
)

// AdvisorHeader introduces the list of suggested actions.
const AdvisorHeader = "As your financial advisor, to achieve your allocation you should:"

// FormatAdvice renders the actions as the advisor's plain-text list.
func FormatAdvice(actions []model.RebalanceAction) string {
	var b strings.Builder
	b.WriteString(AdvisorHeader + "\n")
	for _, a := range actions {
		b.WriteString("> " + a.Sentence() + "\n")
	}
	return b.String()
}

// FormatMoney displays amount in currency, e.g. "$1,234.50".
// Unknown currency codes fall back to "1234.50 XYZ".
func FormatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatPercent shows a fraction as a percentage with two decimals: 0.4 -> "40.00%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// FormatAllocation lists the target allocation one line per name, in the given order.
func FormatAllocation(names []string, alloc allocation.Map) string {
	var b strings.Builder
	for _, n := range names {
		b.WriteString(fmt.Sprintf("%s: %s\n", n, FormatPercent(alloc.Target(n))))
	}
	return b.String()
}

// FormatMarkdownReport renders a report for the terminal.
func FormatMarkdownReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Rebalance | %s\n\n", r.At.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Total value: **%s**\n\n", FormatMoney(r.TotalValue, r.Currency)))

	b.WriteString("| Stock | Quantity | Price | Value | Current | Target |\n")
	b.WriteString("|:------|---------:|------:|------:|--------:|-------:|\n")
	for _, h := range r.Holdings {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			escapeMarkdown(h.Name),
			decimal.NewFromFloat(h.Quantity).String(),
			FormatMoney(h.Price, r.Currency),
			FormatMoney(h.Value, r.Currency),
			FormatPercent(h.CurrentFraction),
			FormatPercent(h.TargetFraction)))
	}

	b.WriteString("\n## " + AdvisorHeader + "\n\n")
	for _, a := range r.Actions {
		b.WriteString("- " + escapeMarkdown(a.Sentence()) + "\n")
	}
	return b.String()
}

// FormatTelegramReport formats a report as a Telegram HTML message.
func FormatTelegramReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Rebalance</b> | %s\n\n", r.At.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Total value: %s\n\n", html.EscapeString(FormatMoney(r.TotalValue, r.Currency))))

	for _, h := range r.Holdings {
		b.WriteString(fmt.Sprintf("%s: %s × %s (%s → %s)\n",
			html.EscapeString(h.Name),
			decimal.NewFromFloat(h.Quantity).String(),
			html.EscapeString(FormatMoney(h.Price, r.Currency)),
			FormatPercent(h.CurrentFraction),
			FormatPercent(h.TargetFraction)))
	}

	b.WriteString("\n💰 <b>Suggested actions:</b>\n")
	for _, a := range r.Actions {
		b.WriteString("• " + html.EscapeString(a.Sentence()) + "\n")
	}
	return b.String()
}

// FormatHistory lists recorded runs, newest first.
func FormatHistory(runs []recorder.Run) string {
	if len(runs) == 0 {
		return "No rebalance runs recorded.\n"
	}
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(fmt.Sprintf("%s  %-9s  %s  total %s\n",
			run.At.Format("2006-01-02 15:04:05"), run.Trigger, shortID(run.ID), FormatMoney(run.TotalValue, run.Currency)))
		for _, a := range run.Actions {
			b.WriteString("    > " + a.Sentence() + "\n")
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
