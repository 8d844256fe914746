// Package prompt runs the interactive session: the user enters stocks and a
// target allocation line by line and gets the advisor's suggestions back.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"StockBalancer/internal/allocation"
	"StockBalancer/internal/model"
	"StockBalancer/internal/notifier"
	"StockBalancer/internal/portfolio"
	"StockBalancer/internal/pricing"
)

// ErrAborted is returned when input ends before the session is complete.
var ErrAborted = errors.New("input closed before the session finished")

// Session holds the state of one interactive run.
type Session struct {
	in        *lineReader
	out       io.Writer
	collector *pricing.Collector
	currency  string

	stocks []model.Stock
	used   map[string]bool
}

// NewSession creates a Session reading answers from in and writing prompts to out.
// collector supplies prices for stocks entered without a history.
func NewSession(in io.Reader, out io.Writer, collector *pricing.Collector, currency string) *Session {
	return &Session{
		in:        &lineReader{r: bufio.NewReader(in)},
		out:       out,
		collector: collector,
		currency:  currency,
		used:      make(map[string]bool),
	}
}

// Run walks through stock entry, allocation entry and the rebalance.
// It returns a nil report without error when the user declines to fix an
// allocation that does not add up.
func (s *Session) Run() (*model.Report, error) {
	s.println("=== Stock Portfolio CLI ===\n")

	for {
		if err := s.promptForStock(); err != nil {
			return nil, err
		}
		more, err := s.confirm("Do you want to add another stock?", true)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	s.println("\n=== Created Stocks ===")
	for i, st := range s.stocks {
		s.printf("%d. %s - Quantity: %s, Price History: [%s]\n", i+1, st.Name, formatNumber(st.Quantity), joinNumbers(st.PriceHistory))
	}
	s.printf("\nTotal stocks created: %d\n", len(s.stocks))

	alloc, err := s.promptForAllocations()
	if err != nil || alloc == nil {
		return nil, err
	}

	names := make([]string, len(s.stocks))
	for i, st := range s.stocks {
		names[i] = st.Name
	}
	s.println("\n=== Allocation Created ===")
	s.printf("%s", notifier.FormatAllocation(names, alloc))

	s.println("\n=== Summary ===")
	s.printf("Stocks: %d\n", len(s.stocks))

	report, err := portfolio.New(s.stocks, alloc).Report(model.TriggerPrompt, s.currency)
	if err != nil {
		return nil, err
	}
	s.printf("\n\n%s", notifier.FormatAdvice(report.Actions))
	return report, nil
}

func (s *Session) promptForStock() error {
	name, err := s.ask("Enter stock name:", func(in string) error {
		in = strings.TrimSpace(in)
		if in == "" {
			return errors.New("Name cannot be empty")
		}
		if s.used[strings.ToLower(in)] {
			return errors.New("Stock name must be unique")
		}
		return nil
	})
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	qtyIn, err := s.ask("Enter quantity:", func(in string) error {
		if n, ok := parseNumber(in); !ok || n <= 0 {
			return errors.New("Quantity must be a positive number")
		}
		return nil
	})
	if err != nil {
		return err
	}
	quantity, _ := parseNumber(qtyIn)

	withHistory, err := s.confirm("Do you want to add price history?", false)
	if err != nil {
		return err
	}

	var prices []float64
	if withHistory {
		pricesIn, err := s.ask("Enter prices separated by commas (e.g., 10,20,30):", func(in string) error {
			if strings.TrimSpace(in) == "" {
				return errors.New("Please enter at least one price")
			}
			if _, ok := parsePrices(in); !ok {
				return errors.New("All prices must be positive numbers")
			}
			return nil
		})
		if err != nil {
			return err
		}
		prices, _ = parsePrices(pricesIn)
	} else {
		prices, err = s.collector.HistoryFor(name)
		if err != nil {
			return err
		}
	}

	st, err := model.NewStock(name, quantity, prices)
	if err != nil {
		return err
	}
	s.used[strings.ToLower(name)] = true
	s.stocks = append(s.stocks, st)

	s.printf("\nStock %q added successfully!\n", name)
	return nil
}

func (s *Session) promptForAllocations() (allocation.Map, error) {
	s.println("\n=== Allocation Setup ===")
	s.println("Enter allocation for each stock (decimal between 0 and 1).")
	s.println("The sum of all allocations must equal 1.\n")

	for {
		entered := make(map[string]float64, len(s.stocks))
		for _, st := range s.stocks {
			remaining := allocation.Remaining(entered)
			q := fmt.Sprintf("Enter allocation for %q (remaining: %s):", st.Name, formatNumber(remaining))
			in, err := s.ask(q, func(in string) error {
				n, ok := parseNumber(in)
				if !ok {
					return errors.New("Allocation must be a number")
				}
				if n < 0 || n > 1 {
					return errors.New("Allocation must be between 0 and 1")
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			entered[st.Name], _ = parseNumber(in)
		}

		alloc, err := allocation.Build(entered)
		if err == nil {
			return alloc, nil
		}
		if !errors.Is(err, allocation.ErrInvalidAllocation) {
			return nil, err
		}

		total := allocation.Sum(entered).Round(allocation.Places)
		s.printf("\nError: Allocations sum to %s, but must equal 1.\n", total.String())
		retry, err := s.confirm("Do you want to re-enter the allocations?", true)
		if err != nil {
			return nil, err
		}
		if !retry {
			s.println("Exiting without creating allocation.")
			return nil, nil
		}
	}
}

// ask repeats question until validate accepts the answer. The answer is
// returned trimmed.
func (s *Session) ask(question string, validate func(string) error) (string, error) {
	var answer string
	err := s.run(huh.NewInput().Title(question).Validate(validate).Value(&answer))
	return answer, err
}

func (s *Session) confirm(question string, def bool) (bool, error) {
	answer := def
	err := s.run(huh.NewConfirm().Title(question).Value(&answer))
	return answer, err
}

// run shows one field as a plain line prompt on the session's reader and writer.
func (s *Session) run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeBase()).
		WithAccessible(true).
		WithInput(s.in).
		WithOutput(s.out).
		Run()
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	if s.in.err != nil {
		return fmt.Errorf("read answer: %w", s.in.err)
	}
	if s.in.done {
		return ErrAborted
	}
	return nil
}

// lineReader hands out at most one line per Read. Each prompt scans the
// input afresh, so nothing past the current answer may be consumed.
// done is set once the underlying reader has nothing left.
type lineReader struct {
	r       *bufio.Reader
	pending string
	done    bool
	err     error
}

func (l *lineReader) Read(p []byte) (int, error) {
	if l.pending == "" {
		if l.done {
			return 0, io.EOF
		}
		line, err := l.r.ReadString('\n')
		switch {
		case errors.Is(err, io.EOF) && line == "":
			l.done = true
			return 0, io.EOF
		case errors.Is(err, io.EOF):
			line += "\n"
		case err != nil:
			l.done, l.err = true, err
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

// parseNumber reads a decimal number; blank input counts as 0.
func parseNumber(in string) (float64, bool) {
	in = strings.TrimSpace(in)
	if in == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(in, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parsePrices(in string) ([]float64, bool) {
	parts := strings.Split(in, ",")
	prices := make([]float64, 0, len(parts))
	for _, p := range parts {
		n, ok := parseNumber(p)
		if !ok || n <= 0 {
			return nil, false
		}
		prices = append(prices, n)
	}
	return prices, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func joinNumbers(ns []float64) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = formatNumber(n)
	}
	return strings.Join(parts, ", ")
}
