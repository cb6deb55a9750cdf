package pagestate

import (
	"context"
	"log/slog"

	"github.com/aretw0/pagestate/internal/logging"
	"github.com/aretw0/pagestate/internal/runtime"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/observability"
	"github.com/aretw0/pagestate/pkg/ports"
	"github.com/aretw0/pagestate/pkg/state"
	"github.com/aretw0/pagestate/pkg/view"
)

// Callback is the work an entry hook performs.
type Callback = runtime.Callback

// Sync builds a callback that runs inside the reactivity pass.
func Sync(fn func(ctx context.Context)) Callback {
	return runtime.Sync(fn)
}

// Async builds a callback that runs on the host's executor.
// The returned error is reported to the error handler; the state is left as is.
func Async(fn func(ctx context.Context) error) Callback {
	return runtime.Async(fn)
}

// Engine is the high-level entry point for the pagestate library.
// It owns a Machine and the entry hooks bound to it.
type Engine struct {
	machine *state.Machine
	reactor *runtime.Reactor

	policy    state.ContextPolicy
	machineID string
	hooks     []domain.LifecycleHooks
	sinks     []ports.TraceSink
	executor  runtime.Executor
	onError   runtime.ErrorHandler
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. May be given several times.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithTraceSink records every engine event in sink.
func WithTraceSink(sink ports.TraceSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sinks = append(e.sinks, sink)
		}
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithContextPolicy sets what a transition enters with when no payload is passed.
func WithContextPolicy(p state.ContextPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithMachineID fixes the machine identifier used in traces.
func WithMachineID(id string) Option {
	return func(e *Engine) {
		e.machineID = id
	}
}

// WithExecutor sets where async entry hooks run.
func WithExecutor(exec func(task func())) Option {
	return func(e *Engine) {
		e.executor = exec
	}
}

// WithErrorHandler receives async entry hook failures.
func WithErrorHandler(h func(ctx context.Context, stateName string, err error)) Option {
	return func(e *Engine) {
		e.onError = h
	}
}

// New creates an engine whose machine starts at initial.
// initial is usually a state.Combine of the first state of every sub-machine.
func New(initial *state.PageState, opts ...Option) (*Engine, error) {
	e := &Engine{
		policy: state.CarryForward,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, sink := range e.sinks {
		e.hooks = append(e.hooks, observability.SinkHooks(sink, e.logger))
	}
	hooks := domain.ComposeHooks(e.hooks...)
	m, err := state.NewMachine(initial,
		state.WithLogger(e.logger),
		state.WithLifecycleHooks(hooks),
		state.WithContextPolicy(e.policy),
		state.WithMachineID(e.machineID),
	)
	if err != nil {
		return nil, err
	}

	e.machine = m
	e.reactor = runtime.NewReactor(m,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithExecutor(e.executor),
		runtime.WithErrorHandler(e.onError),
	)
	return e, nil
}

// Machine returns the underlying machine.
func (e *Engine) Machine() *state.Machine {
	return e.machine
}

// ID returns the machine identifier.
func (e *Engine) ID() string {
	return e.machine.ID()
}

// Current returns the handle most recently entered.
func (e *Engine) Current() *state.PageState {
	return e.machine.Current()
}

// Transition leaves from and enters to. It returns false when from is not
// active, which makes late or duplicate calls harmless.
func (e *Engine) Transition(ctx context.Context, from, to *state.PageState, opts ...state.TransitionOption) bool {
	return e.machine.Transition(ctx, from, to, opts...)
}

// OnEntry binds cb to s. Hooks fire in registration order, once per entry.
func (e *Engine) OnEntry(s *state.PageState, cb Callback) error {
	return e.reactor.Register(s, cb)
}

// Pass fires the entry hooks of states entered since the previous pass.
func (e *Engine) Pass(ctx context.Context) int {
	return e.reactor.Pass(ctx)
}

// UseExecutor replaces the executor for async entry hooks.
func (e *Engine) UseExecutor(exec func(task func())) {
	e.reactor.SetExecutor(exec)
}

// Changed signals after transitions. Signals coalesce.
func (e *Engine) Changed() <-chan struct{} {
	return e.machine.Changed()
}

// Render switches tree against the current handle.
func (e *Engine) Render(tree ...view.Node) []view.Node {
	return view.SwitchView(e.machine.View(), tree...)
}

// Frame renders tree and snapshots the machine from the same view, so the
// snapshot describes exactly the states the nodes were selected by.
func (e *Engine) Frame(tree ...view.Node) (*domain.Snapshot, []view.Node) {
	v := e.machine.View()
	return v.Snapshot(e.machine.ID()), view.SwitchView(v, tree...)
}

// Snapshot copies the machine state.
func (e *Engine) Snapshot() *domain.Snapshot {
	return e.machine.Snapshot()
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
