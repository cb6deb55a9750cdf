package main

import (
	"context"

	"github.com/aretw0/pagestate"
	"github.com/aretw0/pagestate/internal/demo"
	"github.com/aretw0/pagestate/pkg/adapters/memory"
	"github.com/aretw0/pagestate/pkg/adapters/redis"
	"github.com/aretw0/pagestate/pkg/observability"
	"github.com/aretw0/pagestate/pkg/state"
	"github.com/aretw0/pagestate/pkg/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// host is the demo app with its sinks and collectors.
type host struct {
	app      *demo.App
	page     []view.Node
	trace    *memory.TraceSink
	registry *prometheus.Registry
	metrics  *observability.Metrics
	redis    *redis.TraceSink
	tracer   *sdktrace.TracerProvider
}

func newHost(cmd *cobra.Command) (*host, error) {
	policy, err := state.ParseContextPolicy(cfg.Machine.ContextPolicy)
	if err != nil {
		return nil, err
	}

	h := &host{
		trace:    memory.NewTraceSink(),
		registry: prometheus.NewRegistry(),
	}
	h.registry.MustRegister(collectors.NewGoCollector())
	h.metrics = observability.NewMetrics(h.registry)

	opts := []pagestate.Option{
		pagestate.WithLogger(logger),
		pagestate.WithContextPolicy(policy),
		pagestate.WithLifecycleHooks(h.metrics.Hooks()),
		pagestate.WithTraceSink(h.trace),
	}
	if cfg.Trace.Stdout {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()))
		if err != nil {
			return nil, err
		}
		h.tracer = sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		opts = append(opts, pagestate.WithLifecycleHooks(
			observability.TracingHooks(h.tracer.Tracer("github.com/aretw0/pagestate/cmd/pagestate")),
		))
	}
	if cfg.Redis.Addr != "" {
		h.redis = redis.New(cfg.Redis.Addr, "", 0,
			redis.WithPrefix(cfg.Redis.Stream),
			redis.WithMaxLen(cfg.Redis.MaxLen),
		)
		opts = append(opts, pagestate.WithTraceSink(h.redis))
		logger.Info("recording traces to redis", "addr", cfg.Redis.Addr)
	}

	api := demo.SimulatedAPI{UserDelay: cfg.Demo.UserDelay, PostsDelay: cfg.Demo.PostsDelay}
	app, err := demo.New(api, opts...)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.app = app

	path, _ := cmd.Flags().GetString("page")
	page, err := app.States.LoadPage(path)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.page = page
	return h, nil
}

// Close flushes pending spans and releases the Redis connection.
func (h *host) Close() {
	if h.tracer != nil {
		if err := h.tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("flushing spans", "error", err)
		}
	}
	if h.redis == nil {
		return
	}
	if err := h.redis.Close(); err != nil {
		logger.Warn("closing redis", "error", err)
	}
}
