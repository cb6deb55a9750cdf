package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/pagestate/internal/logging"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/state"
)

// Callback is the work an entry hook performs. Build one with Sync or Async.
type Callback struct {
	sync  func(context.Context)
	async func(context.Context) error
}

// Sync runs fn inside the pass that observed the entry.
func Sync(fn func(ctx context.Context)) Callback {
	return Callback{sync: fn}
}

// Async hands fn to the executor. The pass does not wait for it.
func Async(fn func(ctx context.Context) error) Callback {
	return Callback{async: fn}
}

// Executor schedules an async callback. It must not block the pass for long.
type Executor func(task func())

// ErrorHandler receives failures of async callbacks.
type ErrorHandler func(ctx context.Context, stateName string, err error)

type hook struct {
	name string
	cb   Callback
	last *state.PageState
}

// Reactor binds entry hooks to a machine.
//
// Each call to Pass observes the registry once and fires every hook whose
// state became a member since the hook last fired. Identity is the registry
// node: a transition always inserts a fresh node, so re-entering a state fires
// again while unrelated passes do not.
type Reactor struct {
	machine *state.Machine

	mu    sync.Mutex
	hooks []*hook

	executor  Executor
	onError   ErrorHandler
	lifecycle domain.LifecycleHooks
	logger    *slog.Logger
}

// Option configures the Reactor.
type Option func(*Reactor)

// WithExecutor sets where async callbacks run. Defaults to a new goroutine.
func WithExecutor(exec Executor) Option {
	return func(r *Reactor) {
		if exec != nil {
			r.executor = exec
		}
	}
}

// WithErrorHandler sets the receiver of async failures. Defaults to logging.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Reactor) {
		if h != nil {
			r.onError = h
		}
	}
}

// WithLifecycleHooks registers observability hooks for entry events.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Reactor) {
		r.lifecycle = hooks
	}
}

// WithLogger sets the reactor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reactor) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReactor creates a reactor watching m.
func NewReactor(m *state.Machine, opts ...Option) *Reactor {
	r := &Reactor{
		machine:  m,
		executor: func(task func()) { go task() },
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onError == nil {
		r.onError = func(_ context.Context, name string, err error) {
			r.logger.Error("entry hook failed", "state", name, "error", err)
		}
	}
	return r
}

// Register appends a hook for s. Hooks fire in registration order.
// A hook registered while s is already active fires on the next pass.
func (r *Reactor) Register(s *state.PageState, cb Callback) error {
	if s == nil {
		return domain.ErrNilState
	}
	if cb.sync == nil && cb.async == nil {
		return fmt.Errorf("entry hook for %q has no callback", s.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, &hook{name: s.Name(), cb: cb})
	return nil
}

// SetExecutor replaces the executor for callbacks fired by later passes.
func (r *Reactor) SetExecutor(exec Executor) {
	if exec == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executor = exec
}

// Len returns the number of registered hooks.
func (r *Reactor) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

// Pass runs one reactivity pass and returns how many hooks fired.
//
// Due hooks are collected before any of them runs, so a transition made by a
// callback is never seen by the rest of the same pass.
func (r *Reactor) Pass(ctx context.Context) int {
	reg := r.machine.Registry().View()

	r.mu.Lock()
	exec := r.executor
	var due []*hook
	for _, h := range r.hooks {
		node, ok := reg.Get(h.name)
		if !ok || node == h.last {
			continue
		}
		h.last = node
		due = append(due, h)
	}
	r.mu.Unlock()

	for _, h := range due {
		r.fire(ctx, h, exec)
	}
	return len(due)
}

func (r *Reactor) fire(ctx context.Context, h *hook, exec Executor) {
	async := h.cb.async != nil
	r.logger.Debug("entry hook fired", "state", h.name, "async", async)
	if r.lifecycle.OnEntry != nil {
		r.lifecycle.OnEntry(ctx, &domain.EntryEvent{
			EventBase: domain.NewEventBase(domain.EventEntryFired, r.machine.ID()),
			State:     h.name,
			Async:     async,
		})
	}

	if !async {
		h.cb.sync(ctx)
		return
	}

	fn := h.cb.async
	exec(func() {
		if err := fn(ctx); err != nil {
			if r.lifecycle.OnEntryError != nil {
				r.lifecycle.OnEntryError(ctx, &domain.EntryEvent{
					EventBase: domain.NewEventBase(domain.EventEntryFailed, r.machine.ID()),
					State:     h.name,
					Async:     true,
					Err:       err,
				})
			}
			r.onError(ctx, h.name, err)
		}
	})
}
