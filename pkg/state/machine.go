package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/pagestate/internal/logging"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Machine owns a registry and the handle most recently entered.
// Transition is safe for concurrent use; it never runs entry hooks itself, it
// only signals Changed so the host can schedule the next pass.
type Machine struct {
	id         string
	registry   *Registry
	mu         sync.RWMutex
	current    *PageState
	generation *atomic.Uint64
	changed    chan struct{}

	policy ContextPolicy
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// NewMachine creates a machine whose registry is the initial state's registry.
func NewMachine(initial *PageState, opts ...MachineOption) (*Machine, error) {
	if initial == nil {
		return nil, domain.ErrNilState
	}

	m := &Machine{
		id:         uuid.NewString(),
		registry:   initial.registry,
		current:    initial,
		generation: atomic.NewUint64(0),
		changed:    make(chan struct{}, 1),
		policy:     CarryForward,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("machine", m.id)
	return m, nil
}

// ID returns the machine identifier used in trace events.
func (m *Machine) ID() string {
	return m.id
}

// Current returns the handle most recently entered (the initial handle before
// any transition).
func (m *Machine) Current() *PageState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Registry returns the machine's registry.
func (m *Machine) Registry() *Registry {
	return m.registry
}

// Generation returns the number of successful transitions.
func (m *Machine) Generation() uint64 {
	return m.generation.Load()
}

// Changed delivers a signal after successful transitions. Signals coalesce:
// several transitions between two reads produce one signal.
func (m *Machine) Changed() <-chan struct{} {
	return m.changed
}

// Transition swaps from out of the registry for a fresh node named after to.
//
// The entered payload is, in order of precedence: the Passing option, the
// per-call CarryContext/ResetContext policy, the machine policy. CarryForward
// copies the current handle's payload at call time.
//
// If from is not active the call is a no-op and returns false. This absorbs
// stale or duplicate calls, such as an async entry hook finishing after its
// state was already left.
func (m *Machine) Transition(ctx context.Context, from, to *PageState, opts ...TransitionOption) bool {
	if from == nil || to == nil {
		m.logger.Warn("transition with nil state ignored")
		return false
	}

	cfg := transitionConfig{policy: m.policy}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		m.logger.Error("transition abandoned", "from", from.name, "to", to.name, "error", cfg.err)
		return false
	}

	m.mu.Lock()
	next := cfg.context
	if next == nil {
		switch cfg.policy {
		case Reset:
			next = domain.Context{}
		default:
			next = m.current.context
		}
	}

	m.registry.mu.Lock()
	if !m.registry.deleteLocked(from.name) {
		m.registry.mu.Unlock()
		gen := m.generation.Load()
		m.mu.Unlock()
		m.skipped(ctx, from.name, to.name, gen)
		return false
	}
	node := &PageState{
		name:     to.name,
		context:  next.Clone(),
		registry: m.registry,
	}
	m.registry.setLocked(node)
	m.registry.mu.Unlock()

	m.current = node
	gen := m.generation.Inc()
	m.mu.Unlock()

	m.entered(ctx, from.name, node, gen)

	select {
	case m.changed <- struct{}{}:
	default:
	}
	return true
}

// View copies the current handle, the generation and the registry membership
// in one step. Transition holds the same locks while it commits, so a view
// never observes half of a transition.
func (m *Machine) View() *View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.registry.mu.RLock()
	defer m.registry.mu.RUnlock()

	v := m.registry.viewLocked()
	v.current = m.current
	v.generation = m.generation.Load()
	return v
}

// Snapshot copies the machine for serialization.
func (m *Machine) Snapshot() *domain.Snapshot {
	return m.View().Snapshot(m.id)
}

func (m *Machine) skipped(ctx context.Context, from, to string, gen uint64) {
	m.logger.Debug("transition skipped: source not active", "from", from, "to", to)
	if m.hooks.OnSkip != nil {
		m.hooks.OnSkip(ctx, &domain.TransitionEvent{
			EventBase:  domain.NewEventBase(domain.EventTransitionSkipped, m.id),
			From:       from,
			To:         to,
			Generation: gen,
		})
	}
}

func (m *Machine) entered(ctx context.Context, from string, node *PageState, gen uint64) {
	m.logger.Debug("Exiting "+from+".", "from", from, "generation", gen)
	if m.hooks.OnExit != nil {
		m.hooks.OnExit(ctx, &domain.TransitionEvent{
			EventBase:  domain.NewEventBase(domain.EventStateExit, m.id),
			From:       from,
			To:         node.name,
			Generation: gen,
		})
	}

	m.logger.Debug("Entering "+node.name+".", "to", node.name, "generation", gen)
	if m.hooks.OnEnter != nil {
		m.hooks.OnEnter(ctx, &domain.TransitionEvent{
			EventBase:  domain.NewEventBase(domain.EventStateEnter, m.id),
			From:       from,
			To:         node.name,
			Generation: gen,
			Context:    node.Context(),
		})
	}
}
