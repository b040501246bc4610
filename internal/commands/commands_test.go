package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nhle/momentum/internal/app"
)

type cli struct {
	t      *testing.T
	dir    string
	config string
	db     string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{
		t:      t,
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "momentum.db"),
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", c.config, "--db", c.db, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

// createdID pulls the short id out of a "Created goal|task <id> <title>" line.
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3, out)
	return fields[2]
}

func TestGoalAndTaskCommands(t *testing.T) {
	c := newCLI(t)

	goalID := createdID(t, c.mustRun("goal", "add", "Learn Go"))
	taskID := createdID(t, c.mustRun("task", "add", "Write tests", "--goal", goalID, "--priority", "high"))

	out := c.mustRun("task", "list", "--goal", goalID)
	assert.Contains(t, out, "Write tests")
	assert.Contains(t, out, "[ ]")

	out = c.mustRun("task", "done", taskID)
	assert.Contains(t, out, "Done: Write tests")
	assert.Contains(t, out, "XP")

	out = c.mustRun("goal", "list")
	assert.Contains(t, out, "Learn Go")
	assert.Contains(t, out, "1/1 done (100%)")
	assert.Contains(t, out, "streak 1")

	out = c.mustRun("history", "--limit", "10")
	assert.Contains(t, out, "complete")

	out = c.mustRun("task", "done", taskID)
	assert.Contains(t, out, "Marked not done: Write tests")
}

func TestTaskDependencyCommands(t *testing.T) {
	c := newCLI(t)

	first := createdID(t, c.mustRun("task", "add", "Design"))
	second := createdID(t, c.mustRun("task", "add", "Build"))

	c.mustRun("task", "dep", "add", second, first)

	_, err := c.run("task", "done", second)
	require.ErrorIs(t, err, app.ErrDependenciesIncomplete)

	_, err = c.run("task", "dep", "add", first, second)
	require.ErrorIs(t, err, app.ErrDependencyCycle)

	c.mustRun("task", "done", first)
	out := c.mustRun("task", "done", second)
	assert.Contains(t, out, "Done: Build")
}

func TestRepeatingTaskCommand(t *testing.T) {
	c := newCLI(t)

	id := createdID(t, c.mustRun("task", "add", "Stretch", "--due", "today", "--repeat", "daily"))
	out := c.mustRun("task", "done", id)
	assert.Contains(t, out, "Next: ")

	out = c.mustRun("task", "list", "--open")
	assert.Contains(t, out, "Stretch")
	assert.Contains(t, out, "repeats daily")
}

func TestUnknownIDs(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("task", "done", "nope")
	assert.Error(t, err)

	_, err = c.run("goal", "archive", "nope")
	assert.Error(t, err)
}

func TestSettingsPersist(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("settings")
	assert.Contains(t, out, "inactivity threshold  10 days")

	c.mustRun("settings", "--inactivity-days", "3")
	out = c.mustRun("settings")
	assert.Contains(t, out, "inactivity threshold  3 days")

	_, err := c.run("settings", "--inactivity-days", "0")
	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestDarkModeSetting(t *testing.T) {
	c := newCLI(t)
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(false) })

	c.mustRun("settings", "--dark-mode")
	assert.True(t, lipgloss.HasDarkBackground())
	assert.Contains(t, c.mustRun("settings"), "dark mode             true")

	lipgloss.SetHasDarkBackground(false)
	c.mustRun("goal", "list")
	assert.True(t, lipgloss.HasDarkBackground(), "saved preference is applied on startup")

	c.mustRun("settings", "--dark-mode=false")
	assert.False(t, lipgloss.HasDarkBackground())
}

func TestThemeCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("theme", "list")
	assert.Contains(t, out, "monday", "defaults are stored when the database is opened")
	out = c.mustRun("theme", "seed")
	assert.Contains(t, out, "Themes already exist.")
	out = c.mustRun("theme", "today")
	assert.NotContains(t, out, "No theme for today.")

	c.mustRun("theme", "set", "monday", "--name", "Ship It", "--tag", "release")
	out = c.mustRun("theme", "list")
	assert.Contains(t, out, "Ship It")
	assert.Contains(t, out, "weekend")
}

func TestProfileCommands(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("profile", "show", "me")
	assert.Error(t, err)

	c.mustRun("profile", "set", "me", "--name", "Sam", "--hobby", "chess", "--hobby", "chess")
	out := c.mustRun("profile", "show", "me")
	assert.Contains(t, out, "Sam")
	assert.Equal(t, 1, strings.Count(out, "chess"))
}

func TestExportAndReset(t *testing.T) {
	c := newCLI(t)

	c.mustRun("goal", "add", "Read more")
	c.mustRun("task", "add", "Finish novel")

	path := filepath.Join(c.dir, "export.yaml")
	c.mustRun("export", "--out", path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var dump app.Export
	require.NoError(t, yaml.Unmarshal(raw, &dump))
	require.Len(t, dump.Goals, 1)
	assert.Equal(t, "Read more", dump.Goals[0].Title)
	require.Len(t, dump.Tasks, 1)
	assert.NotEmpty(t, dump.History)

	out := c.mustRun("reset", "--yes")
	assert.Contains(t, out, "All data deleted.")
	assert.Contains(t, c.mustRun("goal", "list"), "No goals yet.")
}

func TestInvalidLogLevel(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("--log-level", "loud", "goal", "list")
	assert.Error(t, err)
}
