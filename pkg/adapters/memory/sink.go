package memory

import (
	"context"
	"sync"

	"github.com/aretw0/pagestate/pkg/domain"
)

// DefaultCapacity is the number of events kept per machine.
const DefaultCapacity = 256

// TraceSink implements ports.TraceSink in memory.
// Safe for concurrent use. Each machine keeps its latest events only.
type TraceSink struct {
	mu       sync.RWMutex
	capacity int
	traces   map[string][]domain.TraceEvent
}

// Option configures the TraceSink.
type Option func(*TraceSink)

// WithCapacity sets how many events are retained per machine.
func WithCapacity(n int) Option {
	return func(s *TraceSink) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// NewTraceSink creates a new in-memory sink.
func NewTraceSink(opts ...Option) *TraceSink {
	s := &TraceSink{
		capacity: DefaultCapacity,
		traces:   make(map[string][]domain.TraceEvent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Emit appends the event, dropping the oldest beyond capacity.
func (s *TraceSink) Emit(ctx context.Context, event domain.TraceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trace := append(s.traces[event.MachineID], event)
	if over := len(trace) - s.capacity; over > 0 {
		trace = append([]domain.TraceEvent(nil), trace[over:]...)
	}
	s.traces[event.MachineID] = trace
	return nil
}

// Recent returns a copy of the latest events.
func (s *TraceSink) Recent(ctx context.Context, machineID string, limit int) ([]domain.TraceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trace, ok := s.traces[machineID]
	if !ok || len(trace) == 0 {
		return nil, domain.ErrTraceNotFound
	}
	if limit > 0 && limit < len(trace) {
		trace = trace[len(trace)-limit:]
	}
	return append([]domain.TraceEvent(nil), trace...), nil
}

// Machines returns the IDs of machines with recorded events.
func (s *TraceSink) Machines(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.traces))
	for id := range s.traces {
		ids = append(ids, id)
	}
	return ids, nil
}
