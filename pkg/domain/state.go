package domain

// ActiveState is one member of a machine's active registry.
type ActiveState struct {
	Name    string  `json:"name"`
	Context Context `json:"context,omitempty"`
}

// Snapshot represents a point-in-time copy of a machine.
// It is what hosts serialize; the live registry is never handed out.
type Snapshot struct {
	// MachineID identifies the machine instance the snapshot came from.
	MachineID string `json:"machine_id"`

	// Current is the name of the handle most recently entered.
	Current string `json:"current"`

	// Context is the current handle's payload.
	Context Context `json:"context,omitempty"`

	// Generation counts successful transitions since the machine was created.
	Generation uint64 `json:"generation"`

	// Active lists the registry members in insertion order.
	Active []ActiveState `json:"active"`
}

// Has reports whether name was active when the snapshot was taken.
func (s *Snapshot) Has(name string) bool {
	for _, a := range s.Active {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Names returns the active state names in registry order.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.Active))
	for i, a := range s.Active {
		names[i] = a.Name
	}
	return names
}
