package state

import (
	"strings"

	"github.com/aretw0/pagestate/pkg/domain"
)

// PageState is a named UI condition with a context payload.
// Nodes are immutable: a transition never edits a node, it registers a new one.
type PageState struct {
	name     string
	context  domain.Context
	registry *Registry
}

// StateOption configures a PageState built by New.
type StateOption func(*stateConfig)

type stateConfig struct {
	context  domain.Context
	registry *Registry
}

// WithContext sets the initial payload. The map is copied.
func WithContext(c domain.Context) StateOption {
	return func(cfg *stateConfig) {
		cfg.context = c
	}
}

// In joins an existing registry instead of creating a fresh one.
func In(r *Registry) StateOption {
	return func(cfg *stateConfig) {
		cfg.registry = r
	}
}

// New creates a page state and registers it under its name.
// Without In, the state gets a registry of its own. An existing entry with the
// same name is overwritten.
func New(name string, opts ...StateOption) *PageState {
	cfg := stateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}

	ps := &PageState{
		name:     name,
		context:  cfg.context.Clone(),
		registry: cfg.registry,
	}
	ps.registry.set(ps)
	return ps
}

// Combine builds one fresh registry holding a copy of every given state and
// returns a composite handle for it, named by joining member names with "-".
// The handle itself is not a member and carries an empty context, so a case
// tagged with the joined name never renders; tag the members instead.
// Inputs are left untouched so declarations can seed any number of machines.
func Combine(states ...*PageState) *PageState {
	reg := NewRegistry()
	for _, s := range states {
		if s == nil {
			continue
		}
		reg.set(&PageState{
			name:     s.name,
			context:  s.context.Clone(),
			registry: reg,
		})
	}

	return &PageState{
		name:     strings.Join(reg.Names(), domain.NameSeparator),
		context:  domain.Context{},
		registry: reg,
	}
}

// Name returns the state's identity.
func (ps *PageState) Name() string {
	return ps.name
}

// Context returns a copy of the payload.
func (ps *PageState) Context() domain.Context {
	return ps.context.Clone()
}

// Registry returns the registry this node participates in.
func (ps *PageState) Registry() *Registry {
	return ps.registry
}

// Is reports whether other is active in this node's registry.
func (ps *PageState) Is(other *PageState) bool {
	if other == nil {
		return false
	}
	return ps.registry.Has(other.name)
}

// String implements fmt.Stringer.
func (ps *PageState) String() string {
	return ps.name
}
