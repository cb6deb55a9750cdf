package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateExit         EventType = "state_exit"
	EventStateEnter        EventType = "state_enter"
	EventTransitionSkipped EventType = "transition_skipped"
	EventEntryFired        EventType = "entry_fired"
	EventEntryFailed       EventType = "entry_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	MachineID string    `json:"machine_id"`
}

// NewEventBase stamps a fresh event header.
func NewEventBase(typ EventType, machineID string) EventBase {
	return EventBase{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      typ,
		MachineID: machineID,
	}
}

// TransitionEvent represents one side of a transition (exit or enter), or a skipped transition.
type TransitionEvent struct {
	EventBase
	From       string  `json:"from"`
	To         string  `json:"to"`
	Generation uint64  `json:"generation"`
	Context    Context `json:"context,omitempty"`
}

// EntryEvent represents an entry hook firing for a state.
type EntryEvent struct {
	EventBase
	State string `json:"state"`
	Async bool   `json:"async,omitempty"`
	Err   error  `json:"-"`
}

// TraceEvent is the flat record stored by trace sinks.
type TraceEvent struct {
	ID         string    `json:"id"`
	MachineID  string    `json:"machine_id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	State      string    `json:"state,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Generation uint64    `json:"generation,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Trace flattens the event for a sink.
func (e *TransitionEvent) Trace() TraceEvent {
	return TraceEvent{
		ID:         e.ID,
		MachineID:  e.MachineID,
		Type:       e.Type,
		Timestamp:  e.Timestamp,
		From:       e.From,
		To:         e.To,
		Generation: e.Generation,
	}
}

// Trace flattens the event for a sink.
func (e *EntryEvent) Trace() TraceEvent {
	t := TraceEvent{
		ID:        e.ID,
		MachineID: e.MachineID,
		Type:      e.Type,
		Timestamp: e.Timestamp,
		State:     e.State,
	}
	if e.Err != nil {
		t.Error = e.Err.Error()
	}
	return t
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the goroutine that caused the event and must not
// call back into the machine.
type LifecycleHooks struct {
	OnExit       func(context.Context, *TransitionEvent)
	OnEnter      func(context.Context, *TransitionEvent)
	OnSkip       func(context.Context, *TransitionEvent)
	OnEntry      func(context.Context, *EntryEvent)
	OnEntryError func(context.Context, *EntryEvent)
}

// ComposeHooks fans every callback out to each of the given hook sets, in order.
func ComposeHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnExit: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range all {
				if h.OnExit != nil {
					h.OnExit(ctx, e)
				}
			}
		},
		OnEnter: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range all {
				if h.OnEnter != nil {
					h.OnEnter(ctx, e)
				}
			}
		},
		OnSkip: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range all {
				if h.OnSkip != nil {
					h.OnSkip(ctx, e)
				}
			}
		},
		OnEntry: func(ctx context.Context, e *EntryEvent) {
			for _, h := range all {
				if h.OnEntry != nil {
					h.OnEntry(ctx, e)
				}
			}
		},
		OnEntryError: func(ctx context.Context, e *EntryEvent) {
			for _, h := range all {
				if h.OnEntryError != nil {
					h.OnEntryError(ctx, e)
				}
			}
		},
	}
}
