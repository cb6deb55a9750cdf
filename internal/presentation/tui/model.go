package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/aretw0/pagestate/pkg/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type changedMsg struct{}

// Model is a bubbletea program that drives an engine: every change signal
// triggers a reactivity pass and a re-render.
type Model struct {
	ctx      context.Context
	host     runner.Host
	tree     []view.Node
	title    string
	done     func(*domain.Snapshot) bool
	renderer func(string) (string, error)

	width    int
	body     string
	snapshot *domain.Snapshot
	passes   int
	finished bool
}

// Option configures the Model.
type Option func(*Model)

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithDone marks the run finished once fn holds.
func WithDone(fn func(*domain.Snapshot) bool) Option {
	return func(m *Model) {
		m.done = fn
	}
}

// WithRenderer renders the page Markdown (e.g. glamour). Without it the page
// is shown as plain text.
func WithRenderer(r func(string) (string, error)) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// NewModel creates a model for host rendering tree.
func NewModel(ctx context.Context, host runner.Host, tree []view.Node, opts ...Option) Model {
	m := Model{
		ctx:   ctx,
		host:  host,
		tree:  tree,
		title: "pagestate",
		width: DefaultWidth,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// waitForChange blocks until ch fires or ctx ends; a nil message is
// dropped by the program.
func waitForChange(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Init runs the first pass.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return changedMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.snapshot != nil {
			m.render()
		}
	case changedMsg:
		m.host.Pass(m.ctx)
		m.passes++
		m.render()
		if m.done != nil && m.done(m.snapshot) {
			m.finished = true
			return m, nil
		}
		return m, waitForChange(m.ctx, m.host.Changed())
	}
	return m, nil
}

func (m *Model) render() {
	snap, nodes := m.host.Frame(m.tree...)
	m.snapshot = snap
	if m.renderer == nil {
		m.body = strings.TrimRight(view.PlainText(nodes), "\n")
		return
	}
	out, err := m.renderer(view.Markdown(nodes))
	if err != nil {
		out = view.PlainText(nodes)
	}
	m.body = strings.TrimRight(out, "\n")
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(bodyStyle.Width(max(m.width-4, 20)).Render(m.body))
	sb.WriteString("\n")

	if m.snapshot != nil {
		active := make([]string, 0, len(m.snapshot.Active))
		for _, name := range m.snapshot.Names() {
			active = append(active, activeStyle.Render(name))
		}
		sb.WriteString(fmt.Sprintf("active: %s  generation: %d  passes: %d\n",
			strings.Join(active, ", "), m.snapshot.Generation, m.passes))
	}
	if m.finished {
		sb.WriteString(doneStyle.Render("done"))
		sb.WriteString(" ")
	}
	sb.WriteString(helpStyle.Render("q: quit"))
	return lipgloss.NewStyle().MaxWidth(max(m.width, 20)).Render(sb.String())
}

// Snapshot returns the snapshot of the last render.
func (m Model) Snapshot() *domain.Snapshot {
	return m.snapshot
}

// Finished reports whether the done condition was reached.
func (m Model) Finished() bool {
	return m.finished
}
