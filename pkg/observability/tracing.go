package observability

import (
	"context"

	"github.com/aretw0/pagestate/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/pagestate"

// TracingHooks records engine events on the span found in the event context.
// Each transition also gets a short span of its own, so runs without an
// enclosing span are still visible. A nil tracer uses the global provider.
func TracingHooks(tracer trace.Tracer) domain.LifecycleHooks {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return domain.LifecycleHooks{
		OnEnter: func(ctx context.Context, e *domain.TransitionEvent) {
			_, span := tracer.Start(ctx, "pagestate.transition",
				trace.WithAttributes(transitionAttrs(e)...),
			)
			span.End()
		},
		OnSkip: func(ctx context.Context, e *domain.TransitionEvent) {
			trace.SpanFromContext(ctx).AddEvent(string(e.Type), trace.WithAttributes(transitionAttrs(e)...))
		},
		OnEntry: func(ctx context.Context, e *domain.EntryEvent) {
			trace.SpanFromContext(ctx).AddEvent(string(e.Type), trace.WithAttributes(
				attribute.String("state", e.State),
				attribute.Bool("async", e.Async),
			))
		},
		OnEntryError: func(ctx context.Context, e *domain.EntryEvent) {
			span := trace.SpanFromContext(ctx)
			span.RecordError(e.Err, trace.WithAttributes(attribute.String("state", e.State)))
			span.SetStatus(codes.Error, "entry hook failed")
		},
	}
}

func transitionAttrs(e *domain.TransitionEvent) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("machine_id", e.MachineID),
		attribute.String("from", e.From),
		attribute.String("to", e.To),
		attribute.Int64("generation", int64(e.Generation)),
	}
}
