// Package tui provides the full-screen bubbletea mode for the shootout.
// The poll loop runs in its own goroutine and feeds the model through a
// Bridge, which converts Renderer calls into bubbletea messages; the
// model just repaints whatever the last tick produced.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/source-shootout/pkg/render"
	"gitlab.com/tinyland/lab/source-shootout/pkg/shootout"
)

// RowsMsg carries one collecting tick's ranked rows into the model.
type RowsMsg struct {
	Rows    []shootout.DisplayRow
	Elapsed time.Duration
}

// WaitingMsg carries syncing-phase progress into the model.
type WaitingMsg struct {
	Pending []string
}

// DoneMsg signals that the poll loop has stopped. Err is nil on operator
// interruption and non-nil when the loop died.
type DoneMsg struct {
	Err error
}

// Model is the bubbletea model for the shootout dashboard.
type Model struct {
	channel string

	rows       []shootout.DisplayRow
	elapsed    time.Duration
	pending    []string
	collecting bool

	spin     spinner.Model
	width    int
	height   int
	err      error
	quitting bool
}

// NewModel creates a dashboard model for the given target channel.
func NewModel(channel string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	return Model{
		channel: channel,
		spin:    s,
		width:   80,
		height:  24,
	}
}

// Err returns the loop error delivered by DoneMsg, if any. main inspects
// it after the program exits.
func (m Model) Err() error {
	return m.err
}

// Init starts the sync spinner.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles key presses, resize, spinner ticks, and loop messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.collecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case WaitingMsg:
		m.pending = msg.Pending

	case RowsMsg:
		m.collecting = true
		m.rows = msg.Rows
		m.elapsed = msg.Elapsed

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current phase.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.collecting {
		return render.Table(m.rows, m.channel, m.elapsed, m.width) +
			"\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render("q:quit")
	}
	return m.spin.View() + " " + render.WaitingView(m.pending, m.channel)
}

// Bridge implements shootout.Renderer by forwarding every call into a
// running bubbletea program.
type Bridge struct {
	p *tea.Program
}

// NewBridge wraps p.
func NewBridge(p *tea.Program) *Bridge {
	return &Bridge{p: p}
}

// Display implements shootout.Renderer.
func (b *Bridge) Display(rows []shootout.DisplayRow, elapsed time.Duration) {
	b.p.Send(RowsMsg{Rows: rows, Elapsed: elapsed})
}

// Waiting implements shootout.Renderer.
func (b *Bridge) Waiting(pending []string) {
	b.p.Send(WaitingMsg{Pending: pending})
}

var _ shootout.Renderer = (*Bridge)(nil)
