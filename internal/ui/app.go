package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/GitHistory/internal/git"
	"github.com/Johannes-Berggren/GitHistory/internal/layout"
	"github.com/Johannes-Berggren/GitHistory/internal/logger"
	"github.com/Johannes-Berggren/GitHistory/internal/session"
)

const noticeDuration = 2 * time.Second

type fetchDoneMsg struct {
	raw string
}

type fetchFailedMsg struct {
	err error
}

type statusMsg struct {
	branch string
}

type warningMsg struct {
	text string
}

type repoChangedMsg struct{}

type copiedMsg struct {
	hash string
	err  error
}

type clearNoticeMsg struct {
	id int
}

// Options configures a Model.
type Options struct {
	Context context.Context
	Fetcher git.Fetcher
	Path    string
	Count   int
	Metrics layout.Metrics
	Tint    layout.Color
	Accent  string
	// Warnings carries log lines to show in the status line.
	Warnings <-chan string
	// Changes fires when the repository changes on disk.
	Changes <-chan struct{}
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

type Model struct {
	session.Session

	opts     Options
	count    int
	history  *HistoryView
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	branch   string
	notice   string
	noticeID int
	width    int
	height   int
}

func NewModel(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Metrics == (layout.Metrics{}) {
		opts.Metrics = layout.TerminalMetrics
	}
	if opts.Count < 1 {
		opts.Count = 1
	}
	if opts.Accent == "" {
		opts.Accent = "170"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Accent))

	m := Model{
		opts:    opts,
		count:   opts.Count,
		history: NewHistoryView(opts.Tint, opts.Accent),
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	// Init starts the first fetch.
	m.Session, _ = m.Session.Begin()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetch(),
		m.loadStatus(),
		m.spinner.Tick,
		waitForWarning(m.opts.Warnings),
		waitForChange(m.opts.Changes),
	)
}

// startFetch begins a fetch unless one is already running, in which case
// it returns nil.
func (m Model) startFetch() (Model, tea.Cmd) {
	next, ok := m.Session.Begin()
	if !ok {
		return m, nil
	}
	m.Session = next
	return m, m.fetch()
}

func (m Model) fetch() tea.Cmd {
	ctx, fetcher, path, count := m.opts.Context, m.opts.Fetcher, m.opts.Path, m.count
	return func() tea.Msg {
		raw, err := fetcher.FetchLog(ctx, path, count)
		if err != nil {
			return fetchFailedMsg{err}
		}
		return fetchDoneMsg{raw}
	}
}

func (m Model) loadStatus() tea.Cmd {
	ctx, fetcher, path := m.opts.Context, m.opts.Fetcher, m.opts.Path
	return func() tea.Msg {
		branch, err := fetcher.Branch(ctx, path)
		if err != nil {
			logger.Named("ui").WithError(err).Debug("failed to get current branch")
			branch = "unknown"
		}
		return statusMsg{branch}
	}
}

func waitForWarning(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return nil
		}
		return warningMsg{text}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return repoChangedMsg{}
	}
}

func (m Model) copyHash(hash string) tea.Cmd {
	write := m.opts.Clipboard
	return func() tea.Msg {
		return copiedMsg{hash: hash, err: write(hash)}
	}
}

func (m Model) setNotice(text string) (Model, tea.Cmd) {
	m.noticeID++
	m.notice = text
	id := m.noticeID
	return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{id}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.history.Filtering() {
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.history.SetSize(m.width, m.listHeight())
		return m, nil

	case fetchDoneMsg:
		m.Session = m.Session.Complete(msg.raw, m.opts.Metrics)
		m.history.SetList(m.Session.List)
		return m, nil

	case fetchFailedMsg:
		m.Session = m.Session.Fail(msg.err)
		m.history.SetList(nil)
		return m, nil

	case statusMsg:
		m.branch = msg.branch
		return m, nil

	case warningMsg:
		var cmd tea.Cmd
		m, cmd = m.setNotice(msg.text)
		return m, tea.Batch(cmd, waitForWarning(m.opts.Warnings))

	case repoChangedMsg:
		var fetch tea.Cmd
		m, fetch = m.startFetch()
		return m, tea.Batch(fetch, m.loadStatus(), waitForChange(m.opts.Changes))

	case copiedMsg:
		if msg.err != nil {
			logger.Named("ui").WithError(msg.err).Warn("failed to copy commit hash")
			return m, nil
		}
		return m.setNotice(fmt.Sprintf("Copied commit hash %s", msg.hash))

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		var fetch tea.Cmd
		m, fetch = m.startFetch()
		if fetch == nil {
			return m, nil
		}
		return m, tea.Batch(fetch, m.loadStatus())

	case key.Matches(msg, m.keys.More):
		m.count++
		return m, nil

	case key.Matches(msg, m.keys.Less):
		if m.count > 1 {
			m.count--
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if entry := m.history.SelectedEntry(); entry != nil && entry.Hash != "" {
			return m, m.copyHash(entry.Hash)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// Count is the number of commits the next fetch asks for.
func (m Model) Count() int {
	return m.count
}

// Notice is the transient status line text.
func (m Model) Notice() string {
	return m.notice
}

func (m Model) listHeight() int {
	// header, divider, divider, footer, help
	return max(m.height-5, 1)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.opts.Accent)).
		MarginRight(2)

	branchStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(branchColor)).
		Bold(true)

	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	title := titleStyle.Render("Git History")
	info := branchStyle.Render(m.branch) + " " +
		mutedStyle.Render(fmt.Sprintf("%s  (last %d)", m.opts.Path, m.count))

	headerLine := lipgloss.JoinHorizontal(lipgloss.Top, title, info)
	divider := dividerStyle.Render(strings.Repeat("─", m.width))

	return lipgloss.JoinVertical(lipgloss.Left, headerLine, divider)
}

func (m Model) renderBody() string {
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(1, 2)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Padding(1, 2)

	var body string
	switch m.Session.State() {
	case session.StateFetching:
		body = mutedStyle.Render(m.spinner.View() + " Loading...")
	case session.StateFailed:
		body = errorStyle.Render(describeError(m.Session.Err) + "\n\npress r to retry")
	case session.StateIdle:
		body = mutedStyle.Render("No history loaded. Press r to check history.")
	case session.StateEmpty:
		body = mutedStyle.Render("No commits found for " + m.opts.Path)
	default:
		body = m.history.View()
	}

	return lipgloss.NewStyle().Height(m.listHeight()).Render(body)
}

func describeError(err error) string {
	if errors.Is(err, git.ErrEmptyPath) {
		return "No path selected"
	}
	msg := "Error: " + err.Error()
	if errors.Is(err, git.ErrGitUnavailable) {
		msg += "\nInstall git or set git_binary in the config."
	}
	return msg
}

func (m Model) renderFooter() string {
	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	noticeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	divider := dividerStyle.Render(strings.Repeat("─", m.width))
	return lipgloss.JoinVertical(
		lipgloss.Left,
		divider,
		noticeStyle.Render(m.notice),
		m.help.View(m.keys),
	)
}

// ExitErr returns the error the program should exit with: a failed fetch
// caused by a missing path or git binary.
func (m Model) ExitErr() error {
	if m.Session.State() != session.StateFailed {
		return nil
	}
	err := m.Session.Err
	if errors.Is(err, git.ErrEmptyPath) || errors.Is(err, git.ErrPathNotFound) || errors.Is(err, git.ErrGitUnavailable) {
		return err
	}
	return nil
}

// Run starts the interactive program and blocks until it exits.
func Run(opts Options, progOpts ...tea.ProgramOption) error {
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(opts.Context)}, progOpts...)
	final, err := tea.NewProgram(NewModel(opts), progOpts...).Run()
	if err != nil {
		return fmt.Errorf("failed to run ui: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.ExitErr()
	}
	return nil
}
