package domain

import (
	"reflect"
	"slices"
)

// StateDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// MachineID is always present to identify the target.
	MachineID string `json:"machine_id"`

	// Current is set when the current handle changed name.
	Current *string `json:"current,omitempty"`

	// Generation is always present so clients can drop out-of-order updates.
	Generation uint64 `json:"generation"`

	// Entered and Exited list registry members added or removed.
	Entered []string `json:"entered,omitempty"`
	Exited  []string `json:"exited,omitempty"`

	// Context contains only changed, added or deleted keys of the current handle's payload.
	// For deletions, the key is present with a nil value.
	Context map[string]any `json:"context,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *StateDiff {
	if newSnap == nil {
		return nil
	}

	diff := &StateDiff{
		MachineID:  newSnap.MachineID,
		Generation: newSnap.Generation,
	}

	if oldSnap == nil || oldSnap.Current != newSnap.Current {
		diff.Current = &newSnap.Current
	}

	diff.Entered, diff.Exited = diffMembers(oldSnap, newSnap)
	diff.Context = diffContext(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffMembers(oldSnap, newSnap *Snapshot) (entered, exited []string) {
	var oldNames []string
	if oldSnap != nil {
		oldNames = oldSnap.Names()
	}
	newNames := newSnap.Names()

	for _, n := range newNames {
		if !slices.Contains(oldNames, n) {
			entered = append(entered, n)
		}
	}
	for _, n := range oldNames {
		if !slices.Contains(newNames, n) {
			exited = append(exited, n)
		}
	}
	return entered, exited
}

func diffContext(oldSnap, newSnap *Snapshot) map[string]any {
	delta := make(map[string]any)

	// If old is nil, everything in new is a delta
	if oldSnap == nil {
		for k, v := range newSnap.Context {
			delta[k] = v
		}
		if len(delta) == 0 {
			return nil
		}
		return delta
	}

	for k, newVal := range newSnap.Context {
		oldVal, exists := oldSnap.Context[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	for k := range oldSnap.Context {
		if _, exists := newSnap.Context[k]; !exists {
			delta[k] = nil
		}
	}

	// Return nil if delta is empty so omitempty can remove the key
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Current == nil &&
		len(d.Entered) == 0 &&
		len(d.Exited) == 0 &&
		len(d.Context) == 0
}
