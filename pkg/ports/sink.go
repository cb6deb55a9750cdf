package ports

import (
	"context"

	"github.com/aretw0/pagestate/pkg/domain"
)

// TraceSink records transition and entry events.
type TraceSink interface {
	// Emit appends one event to the machine's trace.
	Emit(ctx context.Context, event domain.TraceEvent) error

	// Recent returns up to limit of the machine's latest events, oldest first.
	// A limit <= 0 returns the whole retained trace.
	// Returns domain.ErrTraceNotFound if the machine has no events.
	Recent(ctx context.Context, machineID string, limit int) ([]domain.TraceEvent, error)
}
