package session

import (
	"github.com/Johannes-Berggren/GitHistory/internal/git"
	"github.com/Johannes-Berggren/GitHistory/internal/layout"
)

// State is what the view should show for a session.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateFailed
	// StateEmpty means a fetch succeeded but parsed into zero entries.
	StateEmpty
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateFailed:
		return "failed"
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	}
	return "unknown"
}

// Session owns the single in-flight fetch flag and the current list.
// Methods take and return values so a bubbletea model can embed it.
//
// Fetches have no timeout: if git hangs, Fetching stays true until the
// process exits or the program's context is cancelled.
type Session struct {
	Fetching bool
	// List is nil until a fetch returns output, and again after a fetch
	// returns nothing or fails.
	List *layout.List
	Err  error
}

// Begin marks a fetch as started. It reports false, leaving the session
// unchanged, when one is already running.
func (s Session) Begin() (Session, bool) {
	if s.Fetching {
		return s, false
	}
	s.Fetching = true
	s.Err = nil
	return s, true
}

// Complete replaces the list with the parsed output of a finished fetch.
// Empty output clears the list.
func (s Session) Complete(raw string, metrics layout.Metrics) Session {
	s.Fetching = false
	s.Err = nil
	if raw == "" {
		s.List = nil
		return s
	}
	s.List = layout.NewList(git.ParseLog(raw), metrics)
	return s
}

// Fail ends a fetch that produced no usable output.
func (s Session) Fail(err error) Session {
	s.Fetching = false
	s.List = nil
	s.Err = err
	return s
}

func (s Session) State() State {
	switch {
	case s.Fetching:
		return StateFetching
	case s.Err != nil:
		return StateFailed
	case s.List == nil:
		return StateIdle
	case s.List.Len() == 0:
		return StateEmpty
	}
	return StateLoaded
}
