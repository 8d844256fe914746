package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"StockBalancer/internal/model"
)

// ConsoleNotifier writes reports to a terminal, rendered from markdown
// unless Plain is set.
type ConsoleNotifier struct {
	W     io.Writer
	Plain bool
}

func NewConsoleNotifier(w io.Writer, plain bool) *ConsoleNotifier {
	return &ConsoleNotifier{W: w, Plain: plain}
}

func (c *ConsoleNotifier) Notify(_ context.Context, r *model.Report) error {
	md := FormatMarkdownReport(r)
	if c.Plain {
		_, err := io.WriteString(c.W, md)
		return err
	}
	out, err := RenderMarkdown(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.W, out)
	return err
}

// RenderMarkdown styles markdown for the terminal.
func RenderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
