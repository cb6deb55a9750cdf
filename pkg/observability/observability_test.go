package observability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/pagestate/pkg/adapters/memory"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/observability"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/aretw0/pagestate/pkg/state"
	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func run(t *testing.T, hooks domain.LifecycleHooks) *state.Machine {
	t.Helper()
	a := state.New("A")
	b := state.New("B")
	m, err := state.NewMachine(a, state.WithLifecycleHooks(hooks), state.WithLogger(slogt.New(t)))
	require.NoError(t, err)

	require.True(t, m.Transition(context.Background(), a, b))
	require.False(t, m.Transition(context.Background(), a, b))
	return m
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	hooks := metrics.Hooks()
	run(t, hooks)
	hooks.OnEntry(context.Background(), &domain.EntryEvent{State: "B"})
	hooks.OnEntryError(context.Background(), &domain.EntryEvent{State: "B", Err: errors.New("x")})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("A", "B")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Skipped.WithLabelValues("A", "B")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Entries.WithLabelValues("B")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Failures.WithLabelValues("B")))

	count, err := testutil.GatherAndCount(reg, "pagestate_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTracingHooks(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("test")

	hooks := observability.TracingHooks(tracer)

	ctx, root := tracer.Start(context.Background(), "run")
	a := state.New("A")
	m, err := state.NewMachine(a, state.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	require.True(t, m.Transition(ctx, a, state.New("B")))
	require.False(t, m.Transition(ctx, a, state.New("B")))
	hooks.OnEntryError(ctx, &domain.EntryEvent{
		EventBase: domain.NewEventBase(domain.EventEntryFailed, m.ID()),
		State:     "B",
		Err:       errors.New("fetch failed"),
	})
	root.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	transition := spans[0]
	assert.Equal(t, "pagestate.transition", transition.Name)
	attrs := make(map[string]any)
	for _, kv := range transition.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "A", attrs["from"])
	assert.Equal(t, "B", attrs["to"])
	assert.Equal(t, int64(1), attrs["generation"])
	assert.Equal(t, root.SpanContext().SpanID(), transition.Parent.SpanID())

	runSpan := spans[1]
	assert.Equal(t, "run", runSpan.Name)
	var names []string
	for _, e := range runSpan.Events {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{string(domain.EventTransitionSkipped), "exception"}, names)
	assert.Equal(t, "entry hook failed", runSpan.Status.Description)
}

func TestSinkHooks(t *testing.T) {
	sink := memory.NewTraceSink()

	m := run(t, observability.SinkHooks(sink, slogt.New(t)))

	events, err := sink.Recent(context.Background(), m.ID(), 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventStateExit, events[0].Type)
	assert.Equal(t, domain.EventStateEnter, events[1].Type)
	assert.Equal(t, domain.EventTransitionSkipped, events[2].Type)
	assert.Equal(t, "B", events[1].To)
}

func TestMetrics_Output(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	out := metrics.Output()
	require.NoError(t, out.Write(context.Background(), runner.Frame{}))
	require.NoError(t, out.Write(context.Background(), runner.Frame{}))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Renders))
}
