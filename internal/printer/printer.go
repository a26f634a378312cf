package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/Johannes-Berggren/GitHistory/internal/layout"
)

const (
	defaultWidth = 80
	// minWidth keeps the fixed columns and a short comment on screen.
	minWidth = 72

	hashWidth   = 8
	dateWidth   = 11
	authorWidth = 16
)

// TerminalWidth returns the width of f when it is a terminal, and a
// default width otherwise.
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// Printer writes a history list as plain lines, one per entry.
type Printer struct {
	out   io.Writer
	width int
	tint  layout.Color
}

func New(out io.Writer, width int, tint layout.Color) *Printer {
	return &Printer{out: out, width: max(width, minWidth), tint: tint}
}

// Print writes a title line and the rows of list. A nil list means git
// returned nothing.
func (p *Printer) Print(path, branch string, list *layout.List) error {
	title := color.New(color.FgGreen, color.Bold)
	if _, err := title.Fprintf(p.out, "History of %s", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if branch != "" {
		if _, err := fmt.Fprintf(p.out, " (%s)", branch); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if list == nil {
		return p.line("No history")
	}
	if list.Len() == 0 {
		return p.line("No commits found")
	}

	for _, row := range list.Layout(0, float64(p.width), p.tint) {
		if err := p.line(p.formatRow(row)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) line(s string) error {
	if _, err := fmt.Fprintln(p.out, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (p *Printer) formatRow(row layout.Row) string {
	e := row.Entry
	commentWidth := int(row.Content.W) - hashWidth - dateWidth - authorWidth

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", int(row.Content.X)))
	b.WriteString(p.cell(row, color.FgYellow, e.ShortHash(), hashWidth))
	b.WriteString(p.cell(row, color.FgHiBlack, e.Date, dateWidth))
	b.WriteString(p.cell(row, color.FgCyan, e.Author, authorWidth))
	b.WriteString(p.cell(row, color.Reset, e.Comment, commentWidth))
	return strings.TrimRight(b.String(), " ")
}

// cell pads or truncates text to width. Striped rows get a background.
func (p *Printer) cell(row layout.Row, fg color.Attribute, text string, width int) string {
	if width <= 1 {
		return ""
	}
	text = runewidth.Truncate(text, width-1, "…")
	text = runewidth.FillRight(text, width)

	attrs := []color.Attribute{fg}
	if row.Striped {
		attrs = append(attrs, color.BgBlack)
	}
	return color.New(attrs...).Sprint(text)
}
