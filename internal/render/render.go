package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/newsroom-dev/newsroom/internal/collector"
	"github.com/newsroom-dev/newsroom/internal/scheduler"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))

// Printer writes results in the console layout: the source label, a
// numbered list of items (or the failure), and a blank line.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter styles labels only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{w: w, styled: styled}
}

func (p *Printer) Print(results []scheduler.Result) error {
	for _, r := range results {
		if err := p.printOne(r); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printOne(r scheduler.Result) error {
	label := r.Source.String()
	if p.styled {
		label = labelStyle.Render(label)
	}
	if _, err := fmt.Fprintln(p.w, label); err != nil {
		return err
	}

	if r.Err != nil {
		if _, err := fmt.Fprintf(p.w, "Could not fetch news: %s\n", describe(r.Err)); err != nil {
			return err
		}
	} else {
		for i, item := range r.Items {
			if _, err := fmt.Fprintf(p.w, "%d. %s\n", i+1, item); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(p.w)
	return err
}

func describe(err error) string {
	msg := collector.MessageOf(err)
	if code := collector.CodeOf(err); code != "" {
		return fmt.Sprintf("%s (%s)", msg, code)
	}
	return msg
}
