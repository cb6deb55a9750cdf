package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/ports"
)

// SinkHooks forwards every event to sink. Emit failures are logged and
// otherwise ignored so tracing never blocks a transition.
func SinkHooks(sink ports.TraceSink, logger *slog.Logger) domain.LifecycleHooks {
	if logger == nil {
		logger = slog.Default()
	}
	emit := func(ctx context.Context, e domain.TraceEvent) {
		if err := sink.Emit(ctx, e); err != nil {
			logger.Warn("failed to record trace event", "type", e.Type, "error", err)
		}
	}

	return domain.LifecycleHooks{
		OnExit:       func(ctx context.Context, e *domain.TransitionEvent) { emit(ctx, e.Trace()) },
		OnEnter:      func(ctx context.Context, e *domain.TransitionEvent) { emit(ctx, e.Trace()) },
		OnSkip:       func(ctx context.Context, e *domain.TransitionEvent) { emit(ctx, e.Trace()) },
		OnEntry:      func(ctx context.Context, e *domain.EntryEvent) { emit(ctx, e.Trace()) },
		OnEntryError: func(ctx context.Context, e *domain.EntryEvent) { emit(ctx, e.Trace()) },
	}
}
