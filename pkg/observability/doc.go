/*
Package observability provides tools for monitoring the pagestate engine.

Everything here plugs into domain.LifecycleHooks: Prometheus counters for
transitions and entry hooks, OpenTelemetry span events, and forwarding of
trace events to a ports.TraceSink. Combine them with domain.ComposeHooks.
*/
package observability
