package focus

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/momentum/internal/app"
	"github.com/nhle/momentum/internal/focus"
	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/watch"
)

type stubCompleter struct {
	ids []string
	err error
}

func (s *stubCompleter) CompleteTask(_ context.Context, id string) (*app.CompletionResult, error) {
	s.ids = append(s.ids, id)
	if s.err != nil {
		return nil, s.err
	}
	return &app.CompletionResult{Task: &model.Task{ID: id, Completed: true}, XPAwarded: 25}, nil
}

func newModel(t *testing.T, d time.Duration, c Completer) Model {
	t.Helper()
	s, err := focus.NewSession(d, "t1")
	require.NoError(t, err)
	return New(s, &model.Task{ID: "t1", Title: "Write report"}, c)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	fm, ok := next.(Model)
	require.True(t, ok)
	return fm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCountdownCompletesTask(t *testing.T) {
	c := &stubCompleter{}
	m := newModel(t, 2*time.Second, c)

	m, cmd := update(t, m, TickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.Equal(t, time.Second, m.Session().Remaining())

	m, cmd = update(t, m, TickMsg(time.Now()))
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(CompletedMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, []string{"t1"}, c.ids)

	m, cmd = update(t, m, done)
	require.NotNil(t, cmd)
	res, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, 25, res.XPAwarded)
	assert.Contains(t, m.View(), "+25 XP")
}

func TestPauseStopsCountdown(t *testing.T) {
	m := newModel(t, time.Minute, nil)

	m, _ = update(t, m, keyMsg("p"))
	assert.True(t, m.Paused())
	m, cmd := update(t, m, TickMsg(time.Now()))
	assert.NotNil(t, cmd, "paused view keeps ticking")
	assert.Equal(t, time.Minute, m.Session().Remaining())
	assert.Contains(t, m.View(), "paused")

	m, _ = update(t, m, keyMsg("p"))
	m, _ = update(t, m, TickMsg(time.Now()))
	assert.Equal(t, 59*time.Second, m.Session().Remaining())
}

func TestQuitStopsSession(t *testing.T) {
	c := &stubCompleter{}
	m := newModel(t, time.Minute, c)

	m, cmd := update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.Session().Stopped())
	assert.Empty(t, c.ids)

	m, cmd = update(t, m, TickMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Focused for")
}

func TestCompleteKeyReportsErrors(t *testing.T) {
	c := &stubCompleter{err: errors.New("task has incomplete dependencies")}
	m := newModel(t, time.Minute, c)

	m, cmd := update(t, m, keyMsg("d"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	_, err := m.Result()
	require.Error(t, err)
	assert.Contains(t, m.View(), "Could not complete task")
}

func TestInactiveGoalsAreShown(t *testing.T) {
	m := newModel(t, time.Minute, nil)
	m, cmd := update(t, m, watch.ResultMsg{Inactive: []model.Goal{{Title: "Guitar"}}})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Inactive: Guitar")
}
