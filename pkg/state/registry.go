package state

import "sync"

// Registry is the set of page states active at the same time, keyed by name.
// It keeps insertion order so composite names and renders are deterministic.
// Re-registering a name replaces the node in place.
type Registry struct {
	mu    sync.RWMutex
	order []string
	nodes map[string]*PageState
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]*PageState),
	}
}

// Has reports whether a state with the given name is active.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[name]
	return ok
}

// Get returns the live node registered under name.
func (r *Registry) Get(name string) (*PageState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ps, ok := r.nodes[name]
	return ps, ok
}

// Names returns the active names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// States returns the active nodes in insertion order.
func (r *Registry) States() []*PageState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*PageState, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.nodes[name])
	}
	return out
}

// Len returns the number of active states.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) set(ps *PageState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setLocked(ps)
}

// setLocked inserts or replaces. Caller holds r.mu.
func (r *Registry) setLocked(ps *PageState) {
	if _, exists := r.nodes[ps.name]; !exists {
		r.order = append(r.order, ps.name)
	}
	r.nodes[ps.name] = ps
}

// deleteLocked removes name. Caller holds r.mu.
func (r *Registry) deleteLocked(name string) bool {
	if _, exists := r.nodes[name]; !exists {
		return false
	}
	delete(r.nodes, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
