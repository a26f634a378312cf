package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Johannes-Berggren/GitHistory/internal/layout"
)

type cellStyle struct {
	bg   string
	fg   string
	bold bool
}

type cell struct {
	r rune
	// wide runes occupy two cells; the second one is skipped when rendering
	cont  bool
	style cellStyle
}

// Canvas is a grid of terminal cells that list rows are painted onto.
// One layout unit is one cell.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x].r = ' '
		}
	}
	return &Canvas{width: width, height: height, cells: cells}
}

// FillRect paints the background of every cell the rectangle touches. A
// rectangle shorter than one line still paints the line it starts on.
func (c *Canvas) FillRect(r layout.Rect, col layout.Color) {
	x0 := clamp(int(math.Floor(r.X)), 0, c.width)
	x1 := clamp(int(math.Ceil(r.XMax())), 0, c.width)
	y0 := int(math.Floor(r.Y))
	y1 := int(math.Ceil(r.YMax()))
	if y1 <= y0 {
		y1 = y0 + 1
	}
	y0 = clamp(y0, 0, c.height)
	y1 = clamp(y1, 0, c.height)

	hex := col.Hex()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.cells[y][x].style.bg = hex
		}
	}
}

// Text writes s at (x, y), truncated to maxWidth cells, keeping the
// background already painted there. It returns the number of cells used.
func (c *Canvas) Text(x, y, maxWidth int, s, fg string, bold bool) int {
	if y < 0 || y >= c.height || maxWidth <= 0 {
		return 0
	}
	if runewidth.StringWidth(s) > maxWidth {
		s = runewidth.Truncate(s, maxWidth, "…")
	}

	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col < 0 || col+w > c.width {
			break
		}
		target := &c.cells[y][col]
		target.r = r
		target.cont = false
		target.style.fg = fg
		target.style.bold = bold
		if w == 2 {
			c.cells[y][col+1].cont = true
		}
		col += w
	}
	return col - x
}

// Lines renders each row of cells, grouping runs that share a style.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		var current cellStyle

		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(renderRun(run.String(), current))
			run.Reset()
		}

		for x, cl := range row {
			if cl.cont {
				continue
			}
			if x == 0 || cl.style != current {
				flush()
				current = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

func renderRun(text string, s cellStyle) string {
	if s == (cellStyle{}) {
		return text
	}
	style := lipgloss.NewStyle().Bold(s.bold)
	if s.bg != "" {
		style = style.Background(lipgloss.Color(s.bg))
	}
	if s.fg != "" {
		style = style.Foreground(lipgloss.Color(s.fg))
	}
	return style.Render(text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
