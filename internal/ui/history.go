package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Johannes-Berggren/GitHistory/internal/layout"
	"github.com/Johannes-Berggren/GitHistory/internal/models"
)

const (
	hashColor    = "3"
	dateColor    = "244"
	authorColor  = "6"
	commentColor = "15"
	hintColor    = "241"
	branchColor  = "2"

	markerWidth = 2
	hashWidth   = 8
	dateWidth   = 11
	authorWidth = 16
)

// HistoryView draws a layout.List into a scrollable viewport and tracks
// the selected row. An active filter swaps in a narrower list.
type HistoryView struct {
	source   *layout.List
	list     *layout.List
	cursor   int
	viewport viewport.Model
	filter   textinput.Model
	keys     keyMap
	tint     layout.Color
	accent   string
	width    int
	height   int
}

func NewHistoryView(tint layout.Color, accent string) *HistoryView {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter commits"
	ti.CharLimit = 100

	return &HistoryView{
		viewport: viewport.New(0, 0),
		filter:   ti,
		keys:     newKeyMap(),
		tint:     tint,
		accent:   accent,
	}
}

// SetList replaces the displayed list and resets selection and filter.
func (h *HistoryView) SetList(list *layout.List) {
	h.source = list
	h.list = list
	h.cursor = 0
	h.filter.Reset()
	h.filter.Blur()
	h.viewport.GotoTop()
	h.refresh()
}

// SetSize sets the area available to the list, in cells.
func (h *HistoryView) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.refresh()
}

// Filtering reports whether the filter input has focus.
func (h *HistoryView) Filtering() bool {
	return h.filter.Focused()
}

// SelectedEntry returns the entry under the cursor.
func (h *HistoryView) SelectedEntry() *models.LogEntry {
	if h.list == nil || h.cursor < 0 || h.cursor >= h.list.Len() {
		return nil
	}
	entry := h.list.Entries()[h.cursor]
	return &entry
}

func (h *HistoryView) Update(msg tea.Msg) (*HistoryView, tea.Cmd) {
	if h.list == nil {
		return h, nil
	}

	if h.filter.Focused() {
		return h.updateFilter(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	last := h.list.Len() - 1
	page := h.pageRows()

	switch {
	case key.Matches(keyMsg, h.keys.Down):
		if h.cursor < last {
			h.cursor++
		}
	case key.Matches(keyMsg, h.keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(keyMsg, h.keys.PageDown):
		h.cursor = min(h.cursor+page, last)
	case key.Matches(keyMsg, h.keys.PageUp):
		h.cursor = max(h.cursor-page, 0)
	case key.Matches(keyMsg, h.keys.Top):
		h.cursor = 0
	case key.Matches(keyMsg, h.keys.Bottom):
		h.cursor = max(last, 0)
	case key.Matches(keyMsg, h.keys.Filter):
		cmd := h.filter.Focus()
		h.refresh()
		return h, cmd
	default:
		return h, nil
	}

	h.refresh()
	return h, nil
}

func (h *HistoryView) updateFilter(msg tea.Msg) (*HistoryView, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			h.filter.Reset()
			h.filter.Blur()
			h.applyFilter()
			return h, nil
		case "enter":
			h.filter.Blur()
			return h, nil
		}
	}

	var cmd tea.Cmd
	before := h.filter.Value()
	h.filter, cmd = h.filter.Update(msg)
	if h.filter.Value() != before {
		h.applyFilter()
	}
	return h, cmd
}

// applyFilter keeps entries that fuzzy-match the query, in their
// original order.
func (h *HistoryView) applyFilter() {
	h.cursor = 0
	h.viewport.GotoTop()

	query := strings.TrimSpace(h.filter.Value())
	if query == "" || h.source == nil {
		h.list = h.source
		h.refresh()
		return
	}

	entries := h.source.Entries()
	haystack := make([]string, len(entries))
	for i, e := range entries {
		haystack[i] = strings.Join([]string{e.ShortHash(), e.Date, e.Author, e.Comment}, " ")
	}

	matches := fuzzy.Find(query, haystack)
	indexes := make([]int, 0, len(matches))
	for _, m := range matches {
		indexes = append(indexes, m.Index)
	}
	sort.Ints(indexes)

	filtered := make([]models.LogEntry, 0, len(indexes))
	for _, i := range indexes {
		filtered = append(filtered, entries[i])
	}

	h.list = layout.NewList(filtered, h.source.Metrics())
	h.refresh()
}

// refresh repaints the list and scrolls so the cursor row is visible.
func (h *HistoryView) refresh() {
	h.viewport.Width = h.width
	h.viewport.Height = h.listHeight()

	if h.list == nil || h.width <= 0 {
		h.viewport.SetContent("")
		return
	}

	h.viewport.SetContent(strings.Join(h.render(), "\n"))

	rowHeight := h.list.RowHeight()
	top := int(math.Floor(rowHeight * float64(h.cursor+1)))
	bottom := int(math.Ceil(rowHeight * float64(h.cursor+2)))
	if h.cursor == 0 {
		top = 0
	}
	if top < h.viewport.YOffset {
		h.viewport.SetYOffset(top)
	} else if bottom > h.viewport.YOffset+h.viewport.Height {
		h.viewport.SetYOffset(bottom - h.viewport.Height)
	}
}

// render paints the header row and every entry row. The list's extra
// top row holds the column titles.
func (h *HistoryView) render() []string {
	list := h.list
	marginY := list.RowHeight()
	canvas := NewCanvas(h.width, int(math.Ceil(list.TotalHeight())))

	titleY := int((list.RowHeight() - list.ContentHeight()) / 2)
	x := layout.ContentLeftInset + markerWidth
	x += canvas.Text(x, titleY, hashWidth, padRight("HASH", hashWidth), hintColor, true)
	x += canvas.Text(x, titleY, dateWidth, padRight("DATE", dateWidth), hintColor, true)
	x += canvas.Text(x, titleY, authorWidth, padRight("AUTHOR", authorWidth), hintColor, true)
	canvas.Text(x, titleY, h.width-x, "COMMENT", hintColor, true)

	list.Draw(canvas, marginY, float64(h.width), h.tint, func(content layout.Rect, entry models.LogEntry) {
		selected := list.RowAt(marginY, content.Y) == h.cursor
		h.drawRow(canvas, content, entry, selected)
	})

	return canvas.Lines()
}

func (h *HistoryView) drawRow(canvas *Canvas, content layout.Rect, entry models.LogEntry, selected bool) {
	x := int(content.X)
	y := int(content.Y)
	remaining := int(content.W)

	marker := ""
	commentFg := commentColor
	if selected {
		marker = "▸"
		commentFg = h.accent
	}

	columns := []struct {
		text  string
		width int
		fg    string
	}{
		{marker, markerWidth, h.accent},
		{entry.ShortHash(), hashWidth, hashColor},
		{entry.Date, dateWidth, dateColor},
		{entry.Author, authorWidth, authorColor},
		{entry.Comment, remaining, commentFg},
	}

	for _, col := range columns {
		if remaining <= 0 {
			break
		}
		w := min(col.width, remaining)
		canvas.Text(x, y, w-1, col.text, col.fg, selected)
		x += w
		remaining -= w
	}

	// The right inset is the row's action area.
	if selected {
		canvas.Text(int(content.XMax())+1, y, layout.ContentRightInset-2, "c: copy hash", hintColor, false)
	}
}

func (h *HistoryView) listHeight() int {
	height := h.height
	if h.filter.Focused() || h.filter.Value() != "" {
		height--
	}
	return max(height, 1)
}

func (h *HistoryView) pageRows() int {
	if h.list == nil || h.list.RowHeight() <= 0 {
		return 1
	}
	return max(int(float64(h.listHeight())/h.list.RowHeight()), 1)
}

func (h *HistoryView) View() string {
	if h.list == nil {
		return ""
	}

	var b strings.Builder
	if h.filter.Focused() || h.filter.Value() != "" {
		b.WriteString(h.filter.View() + "\n")
	}

	if h.list.Len() == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(hintColor)).
			Render(fmt.Sprintf("No commits match %q", h.filter.Value())))
		return b.String()
	}

	b.WriteString(h.viewport.View())
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
