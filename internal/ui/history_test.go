package ui

import (
	"fmt"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johannes-Berggren/GitHistory/internal/layout"
	"github.com/Johannes-Berggren/GitHistory/internal/models"
)

func entries(n int) []models.LogEntry {
	out := make([]models.LogEntry, n)
	for i := range out {
		out[i] = models.LogEntry{
			Hash:    fmt.Sprintf("%07d0000", i),
			Author:  "Jane Doe",
			Date:    "2024-01-02",
			Comment: fmt.Sprintf("change %d", i),
		}
	}
	return out
}

func newTestHistory(n, height int) *HistoryView {
	h := NewHistoryView(layout.Color{R: 0.2, G: 0.2, B: 0.3, A: 1}, "170")
	h.SetSize(100, height)
	h.SetList(layout.NewList(entries(n), layout.TerminalMetrics))
	return h
}

func TestHistoryNavigation(t *testing.T) {
	h := newTestHistory(20, 5)

	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{keyRunes("j"), 1},
		{keyRunes("j"), 2},
		{keyRunes("k"), 1},
		{keyRunes("G"), 19},
		{keyRunes("j"), 19},
		{keyRunes("g"), 0},
		{keyRunes("k"), 0},
		{tea.KeyMsg{Type: tea.KeyPgDown}, 5},
		{tea.KeyMsg{Type: tea.KeyPgUp}, 0},
	}

	for _, tt := range tests {
		h, _ = h.Update(tt.key)
		assert.Equal(t, tt.want, h.cursor, "after %s", tt.key)
	}
}

func TestHistoryKeepsCursorVisible(t *testing.T) {
	h := newTestHistory(20, 5)

	h, _ = h.Update(keyRunes("G"))
	assert.Contains(t, h.View(), "change 19")
	assert.NotContains(t, h.View(), "change 0")

	h, _ = h.Update(keyRunes("g"))
	assert.Contains(t, h.View(), "HASH")
	assert.Contains(t, h.View(), "change 0")
}

func TestHistorySelectedEntry(t *testing.T) {
	h := NewHistoryView(layout.Color{}, "170")
	assert.Nil(t, h.SelectedEntry())

	h = newTestHistory(3, 10)
	h, _ = h.Update(keyRunes("j"))
	require.NotNil(t, h.SelectedEntry())
	assert.Equal(t, "change 1", h.SelectedEntry().Comment)
	assert.Contains(t, h.View(), "c: copy hash")
}

func TestHistoryFilter(t *testing.T) {
	h := newTestHistory(12, 20)

	h, _ = h.Update(keyRunes("/"))
	require.True(t, h.Filtering())

	h, _ = h.Update(keyRunes("change 11"))
	require.NotNil(t, h.list)
	assert.Equal(t, 1, h.list.Len())
	assert.Equal(t, "change 11", h.SelectedEntry().Comment)

	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, h.Filtering())
	assert.Contains(t, h.View(), "/change 11")

	h, _ = h.Update(keyRunes("/"))
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 12, h.list.Len())
}

func TestHistoryFilterNoMatch(t *testing.T) {
	h := newTestHistory(3, 10)

	h, _ = h.Update(keyRunes("/"))
	h, _ = h.Update(keyRunes("zzzz"))
	assert.Equal(t, 0, h.list.Len())
	assert.Nil(t, h.SelectedEntry())
	assert.Contains(t, h.View(), `No commits match "zzzz"`)
}

func TestHistoryFilterKeepsOrder(t *testing.T) {
	h := newTestHistory(12, 20)

	h, _ = h.Update(keyRunes("/"))
	h, _ = h.Update(keyRunes("change 1"))

	var got []string
	for _, e := range h.list.Entries() {
		got = append(got, e.Comment)
	}
	assert.Equal(t, []string{"change 1", "change 10", "change 11"}, got)
}

func TestHistoryNilList(t *testing.T) {
	h := NewHistoryView(layout.Color{}, "170")
	h.SetSize(80, 10)
	h.SetList(nil)

	h, cmd := h.Update(keyRunes("j"))
	assert.Nil(t, cmd)
	assert.Empty(t, h.View())
}

func TestColumnColorsAreANSIIndexes(t *testing.T) {
	for _, c := range []string{hashColor, dateColor, authorColor, commentColor, hintColor, branchColor} {
		n, err := strconv.Atoi(c)
		require.NoError(t, err, "color %q", c)
		assert.True(t, n >= 0 && n <= 255, "color %q", c)
	}
}
