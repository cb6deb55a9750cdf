package state

import "github.com/aretw0/pagestate/pkg/domain"

// View is a point-in-time copy of a registry's membership together with the
// handle that was current when it was taken. Renders and snapshots read a
// View so that a transition committing meanwhile cannot mix two moments.
type View struct {
	current    *PageState
	generation uint64
	order      []string
	members    map[string]*PageState
}

// View copies the registry's membership under its read lock.
func (r *Registry) View() *View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.viewLocked()
}

// viewLocked copies the membership. Caller holds r.mu.
func (r *Registry) viewLocked() *View {
	v := &View{
		order:   append([]string(nil), r.order...),
		members: make(map[string]*PageState, len(r.nodes)),
	}
	for name, ps := range r.nodes {
		v.members[name] = ps
	}
	return v
}

// View copies the membership of ps's registry with ps as the current handle.
func (ps *PageState) View() *View {
	v := ps.registry.View()
	v.current = ps
	return v
}

// Current returns the handle the view was taken for. It is nil for a view of
// a bare registry.
func (v *View) Current() *PageState {
	return v.current
}

// Generation returns the machine generation at the time of the view.
func (v *View) Generation() uint64 {
	return v.generation
}

// Has reports whether name was active.
func (v *View) Has(name string) bool {
	_, ok := v.members[name]
	return ok
}

// Get returns the node that was registered under name.
func (v *View) Get(name string) (*PageState, bool) {
	ps, ok := v.members[name]
	return ps, ok
}

// Names returns the active names in insertion order.
func (v *View) Names() []string {
	return append([]string(nil), v.order...)
}

// States returns the active nodes in insertion order.
func (v *View) States() []*PageState {
	out := make([]*PageState, 0, len(v.order))
	for _, name := range v.order {
		out = append(out, v.members[name])
	}
	return out
}

// Len returns the number of active states.
func (v *View) Len() int {
	return len(v.order)
}

// Snapshot converts the view for serialization.
func (v *View) Snapshot(machineID string) *domain.Snapshot {
	snap := &domain.Snapshot{
		MachineID:  machineID,
		Generation: v.generation,
		Active:     make([]domain.ActiveState, 0, len(v.order)),
	}
	if v.current != nil {
		snap.Current = v.current.name
		snap.Context = v.current.Context()
	}
	for _, s := range v.States() {
		snap.Active = append(snap.Active, domain.ActiveState{Name: s.name, Context: s.Context()})
	}
	return snap
}
