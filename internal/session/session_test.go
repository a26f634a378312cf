package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johannes-Berggren/GitHistory/internal/layout"
)

const oneRecord = "commit abc123\nAuthor: Jane Doe <jane@x.com>\nDate:   2024-01-02\n\n    Fix bug\n\n"

func TestBeginGuardsReentry(t *testing.T) {
	var s Session
	assert.Equal(t, StateIdle, s.State())

	s, ok := s.Begin()
	require.True(t, ok)
	assert.Equal(t, StateFetching, s.State())

	again, ok := s.Begin()
	assert.False(t, ok)
	assert.Equal(t, s, again)
}

func TestCompleteLoadsList(t *testing.T) {
	s, _ := Session{}.Begin()

	s = s.Complete(oneRecord, layout.TerminalMetrics)

	assert.False(t, s.Fetching)
	require.NotNil(t, s.List)
	assert.Equal(t, StateLoaded, s.State())
	assert.Equal(t, "abc123", s.List.Entries()[0].Hash)
}

func TestCompleteWithoutOutputClearsList(t *testing.T) {
	s := Session{}.Complete(oneRecord, layout.TerminalMetrics)
	s, _ = s.Begin()

	// The previous list stays visible until the fetch finishes.
	require.NotNil(t, s.List)

	s = s.Complete("", layout.TerminalMetrics)
	assert.Nil(t, s.List)
	assert.Equal(t, StateIdle, s.State())
}

func TestCompleteWithNoRecordsIsEmptyNotIdle(t *testing.T) {
	s, _ := Session{}.Begin()

	s = s.Complete("\n\n", layout.TerminalMetrics)

	require.NotNil(t, s.List)
	assert.Equal(t, 0, s.List.Len())
	assert.Equal(t, StateEmpty, s.State())
}

func TestFailClearsListAndKeepsError(t *testing.T) {
	s := Session{}.Complete(oneRecord, layout.TerminalMetrics)
	s, _ = s.Begin()
	boom := errors.New("boom")

	s = s.Fail(boom)

	assert.Nil(t, s.List)
	assert.False(t, s.Fetching)
	assert.ErrorIs(t, s.Err, boom)
	assert.Equal(t, StateFailed, s.State())

	s, ok := s.Begin()
	assert.True(t, ok)
	assert.NoError(t, s.Err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "unknown", State(42).String())
}
