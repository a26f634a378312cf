package layout

import (
	"math"

	"github.com/Johannes-Berggren/GitHistory/internal/models"
)

const (
	// RowInset trims each side of a row background, and the bottom of the last one.
	RowInset = 1
	// ContentLeftInset and ContentRightInset shrink the content area; the
	// right inset leaves room for a per-row action control.
	ContentLeftInset  = 4
	ContentRightInset = 24
)

// Metrics sizes rows in host units.
type Metrics struct {
	LineHeight      float64
	VerticalSpacing float64
	Padding         float64
}

var (
	// EditorMetrics are pixel sizes for a GUI host.
	EditorMetrics = Metrics{LineHeight: 18, VerticalSpacing: 2, Padding: 4}
	// TerminalMetrics give one text line per row.
	TerminalMetrics = Metrics{LineHeight: 1}
)

// Rect is an axis-aligned rectangle; Y grows downwards.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) XMax() float64 { return r.X + r.W }
func (r Rect) YMax() float64 { return r.Y + r.H }

// Row is the geometry computed for one entry.
type Row struct {
	Index      int
	Background Rect
	Fill       Color
	// Striped is true for even rows, which use the darkened tint.
	Striped bool
	Content Rect
	Entry   models.LogEntry
}

// Surface receives row background fills.
type Surface interface {
	FillRect(r Rect, c Color)
}

// DrawFunc draws one entry inside its content rectangle.
type DrawFunc func(content Rect, entry models.LogEntry)

// List lays out log entries as zebra-striped rows. It holds no state
// besides the entries, so it is safe to lay out on every redraw.
type List struct {
	entries []models.LogEntry
	metrics Metrics
}

func NewList(entries []models.LogEntry, metrics Metrics) *List {
	return &List{entries: entries, metrics: metrics}
}

// Entries returns the entries the list was built with.
func (l *List) Entries() []models.LogEntry {
	return l.entries
}

func (l *List) Len() int {
	return len(l.entries)
}

func (l *List) Metrics() Metrics {
	return l.metrics
}

func (l *List) RowHeight() float64 {
	return l.metrics.LineHeight + l.metrics.VerticalSpacing + l.metrics.Padding
}

func (l *List) ContentHeight() float64 {
	return l.metrics.LineHeight
}

// TotalHeight includes one extra row of margin above the first entry.
func (l *List) TotalHeight() float64 {
	return float64(len(l.entries)+1) * l.RowHeight()
}

// Layout computes every row for a list starting at marginY and spanning
// width. Stripes follow the entry index, not the scroll position.
func (l *List) Layout(marginY, width float64, tint Color) []Row {
	rows := make([]Row, 0, len(l.entries))
	dark := tint.Darken()

	field := Rect{X: 0, Y: marginY, W: width, H: l.RowHeight()}

	for i, entry := range l.entries {
		background := field
		background.X += RowInset
		background.W -= 2 * RowInset
		if i == len(l.entries)-1 {
			background.H -= RowInset
		}

		fill := tint
		if i%2 == 0 {
			fill = dark
		}

		rows = append(rows, Row{
			Index:      i,
			Background: background,
			Fill:       fill,
			Striped:    i%2 == 0,
			Content:    l.contentRect(field),
			Entry:      entry,
		})

		field.Y += l.RowHeight()
	}

	return rows
}

// Draw fills each row background on s and hands the content rectangle to
// draw. draw may be nil.
func (l *List) Draw(s Surface, marginY, width float64, tint Color, draw DrawFunc) {
	for _, row := range l.Layout(marginY, width, tint) {
		s.FillRect(row.Background, row.Fill)
		if draw != nil {
			draw(row.Content, row.Entry)
		}
	}
}

// RowAt returns the index of the row covering y, or -1.
func (l *List) RowAt(marginY, y float64) int {
	h := l.RowHeight()
	if h <= 0 || y < marginY {
		return -1
	}
	i := int(math.Floor((y - marginY) / h))
	if i >= len(l.entries) {
		return -1
	}
	return i
}

func (l *List) contentRect(field Rect) Rect {
	content := field
	content.H = l.ContentHeight()
	content.Y += (l.RowHeight() - l.ContentHeight()) / 2
	content.X += ContentLeftInset
	content.W -= ContentLeftInset + ContentRightInset
	return content
}
