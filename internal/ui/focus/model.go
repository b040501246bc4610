// Package focus is the terminal view of a focus session.
package focus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/focus"
	"github.com/nhle/momentum/internal/keys"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/theme"
	"github.com/nhle/momentum/internal/watch"
)

// Completer marks the focused task done when the session ends.
type Completer interface {
	CompleteTask(ctx context.Context, id string) (*app.CompletionResult, error)
}

// TickMsg advances the countdown by one focus.TickInterval.
type TickMsg time.Time

// CompletedMsg carries the result of completing the focused task.
type CompletedMsg struct {
	Result *app.CompletionResult
	Err    error
}

// Model is the focus view.
type Model struct {
	session   *focus.Session
	task      *model.Task
	completer Completer
	refresher *watch.Refresher

	keys     *keys.KeyMap
	help     help.Model
	progress progress.Model

	paused   bool
	quitting bool
	result   *app.CompletionResult
	err      error
	inactive []model.Goal
	width    int
}

// New creates a focus view for session. task may be nil for a session
// not tied to a task; completer may be nil to never complete anything.
func New(session *focus.Session, task *model.Task, completer Completer) Model {
	return Model{
		session:   session,
		task:      task,
		completer: completer,
		keys:      keys.DefaultKeyMap(),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient()),
		width:     60,
	}
}

// WithRefresher shows inactive goal warnings from r while focusing.
func (m Model) WithRefresher(r *watch.Refresher) Model {
	m.refresher = r
	return m
}

// Init starts the countdown.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.refresher != nil {
		cmds = append(cmds, m.refresher.WaitForResult())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(focus.TickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles messages for the focus view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-8, 10)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.session.Stop()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.Complete):
			m.session.Stop()
			return m, m.complete()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case TickMsg:
		if m.session.Stopped() || m.session.Done() {
			return m, nil
		}
		if m.paused {
			return m, tick()
		}
		if m.session.Tick() {
			return m, m.complete()
		}
		return m, tick()

	case CompletedMsg:
		m.result = msg.Result
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit

	case watch.ResultMsg:
		if msg.Error == nil {
			m.inactive = msg.Inactive
		}
		if m.refresher == nil {
			return m, nil
		}
		return m, m.refresher.WaitForResult()
	}

	return m, nil
}

// complete finishes the session, completing the focused task if any.
func (m Model) complete() tea.Cmd {
	if m.task == nil || m.completer == nil || m.task.Completed {
		return func() tea.Msg { return CompletedMsg{} }
	}
	id := m.task.ID
	completer := m.completer
	return func() tea.Msg {
		res, err := completer.CompleteTask(context.Background(), id)
		return CompletedMsg{Result: res, Err: err}
	}
}

// Result returns the completion outcome once the view has quit.
func (m Model) Result() (*app.CompletionResult, error) { return m.result, m.err }

// Session returns the underlying countdown.
func (m Model) Session() *focus.Session { return m.session }

// Paused reports whether the countdown is paused.
func (m Model) Paused() bool { return m.paused }

// View renders the focus view.
func (m Model) View() string {
	if m.quitting {
		return m.summary()
	}

	title := "Focus"
	if m.task != nil {
		title = "Focus: " + m.task.Title
	}

	remaining := m.session.Remaining()
	clock := fmt.Sprintf("%02d:%02d", int(remaining.Minutes()), int(remaining.Seconds())%60)
	if m.paused {
		clock += theme.HelpStyle.Render("  paused")
	}

	lines := []string{
		theme.HeaderStyle.Render(title),
		"",
		lipgloss.NewStyle().Bold(true).Render(clock),
		m.progress.ViewAs(m.session.Progress()),
	}
	if len(m.inactive) > 0 {
		names := make([]string, 0, len(m.inactive))
		for _, g := range m.inactive {
			names = append(names, g.Title)
		}
		lines = append(lines, "", theme.WarningStyle.Render("Inactive: "+strings.Join(names, ", ")))
	}
	lines = append(lines, "", m.help.View(m.keys))

	return theme.PanelStyle.Width(m.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) summary() string {
	spent := m.session.Elapsed().Round(time.Second)
	switch {
	case m.err != nil:
		return theme.WarningStyle.Render("Could not complete task: "+m.err.Error()) + "\n"
	case m.result != nil:
		s := fmt.Sprintf("Focused for %s. Task done, +%d XP.", spent, m.result.XPAwarded)
		for _, b := range m.result.NewBadges {
			s += " " + theme.BadgeStyle.Render("["+b+"]")
		}
		return s + "\n"
	default:
		return fmt.Sprintf("Focused for %s.\n", spent)
	}
}
