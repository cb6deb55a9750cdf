package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_InsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.set(&PageState{name: "b", registry: r})
	r.set(&PageState{name: "a", registry: r})
	r.set(&PageState{name: "c", registry: r})

	assert.Equal(t, []string{"b", "a", "c"}, r.Names())
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_OverwriteKeepsPosition(t *testing.T) {
	r := NewRegistry()
	first := &PageState{name: "a", registry: r}
	r.set(first)
	r.set(&PageState{name: "b", registry: r})

	second := &PageState{name: "a", registry: r}
	r.set(second)

	assert.Equal(t, []string{"a", "b"}, r.Names())
	got, ok := r.Get("a")
	assert.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegistry_DeleteLocked(t *testing.T) {
	r := NewRegistry()
	r.set(&PageState{name: "a", registry: r})
	r.set(&PageState{name: "b", registry: r})

	assert.True(t, r.deleteLocked("a"))
	assert.False(t, r.deleteLocked("a"))
	assert.False(t, r.Has("a"))
	assert.Equal(t, []string{"b"}, r.Names())
}
