package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/pagestate"
	"github.com/aretw0/pagestate/internal/demo"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoModel(t *testing.T, opts ...Option) (Model, *demo.App) {
	t.Helper()
	app, err := demo.New(demo.SimulatedAPI{},
		pagestate.WithLogger(slogt.New(t)),
		pagestate.WithExecutor(func(task func()) { task() }),
	)
	require.NoError(t, err)
	opts = append([]Option{WithDone(app.Done)}, opts...)
	return NewModel(context.Background(), app.Engine, app.States.Page(), opts...), app
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not complete")
		return nil
	}
}

func drainCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; i < 32 && cmd != nil; i++ {
		m, cmd = applyMsg(t, m, runCmd(t, cmd))
	}
	return m
}

func TestModel_RunsUntilDone(t *testing.T) {
	m, app := newDemoModel(t)

	m = drainCmd(t, m, m.Init())

	require.True(t, m.Finished())
	require.NotNil(t, m.Snapshot())
	assert.True(t, app.Done(m.Snapshot()))

	view := m.View()
	assert.Contains(t, view, "User: abc")
	assert.Contains(t, view, "Posts are loaded!")
	assert.Contains(t, view, "done")
	assert.Contains(t, view, "user-loaded")
}

func TestModel_FirstPassShowsInitialStates(t *testing.T) {
	m, _ := newDemoModel(t, WithTitle("demo"))

	m, cmd := applyMsg(t, m, runCmd(t, m.Init()))
	require.NotNil(t, cmd)
	assert.False(t, m.Finished())

	view := m.View()
	assert.Contains(t, view, "demo")
	assert.Contains(t, view, "Some irrelevant info here")
	assert.Contains(t, view, "passes: 1")
}

func TestModel_QuitKeys(t *testing.T) {
	m, _ := newDemoModel(t)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		_, cmd := applyMsg(t, m, key)
		require.NotNil(t, cmd, key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd(), key.String())
	}
}

func TestModel_RendererIsApplied(t *testing.T) {
	render := func(md string) (string, error) {
		return strings.ToUpper(md), nil
	}
	m, _ := newDemoModel(t, WithRenderer(render))

	m, _ = applyMsg(t, m, runCmd(t, m.Init()))
	m, _ = applyMsg(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Contains(t, m.View(), "SOME IRRELEVANT INFO HERE")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Greater(t, strings.Count(buf.String(), "\n"), 5)
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(60, "notty")
	require.NoError(t, err)

	out, err := render("# Title\n\nbody text")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}

func TestWaitForChange_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cmd := waitForChange(ctx, make(chan struct{}))
	cancel()

	assert.Nil(t, runCmd(t, cmd))
}

func TestWaitForChange_Fires(t *testing.T) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}

	assert.Equal(t, changedMsg{}, runCmd(t, waitForChange(context.Background(), ch)))
}
