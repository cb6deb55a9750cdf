package runner

import (
	"log/slog"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/view"
)

// DefaultWorkers is the default size of the async hook pool.
const DefaultWorkers = 4

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithTree sets the page rendered after every change.
func WithTree(tree ...view.Node) Option {
	return func(r *Runner) {
		r.tree = tree
	}
}

// WithOutput adds a frame receiver. Outputs run in the order given.
func WithOutput(out Output) Option {
	return func(r *Runner) {
		if out != nil {
			r.outputs = append(r.outputs, out)
		}
	}
}

// WithWorkers sets the async hook pool size.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithStopWhen ends the run after the first frame whose snapshot satisfies fn.
func WithStopWhen(fn func(*domain.Snapshot) bool) Option {
	return func(r *Runner) {
		r.stopWhen = fn
	}
}

// WithExitOnIdle ends the run once a pass leaves nothing to do: no async hook
// in flight and no pending change.
func WithExitOnIdle() Option {
	return func(r *Runner) {
		r.exitOnIdle = true
	}
}

// WithSignals cancels the run on SIGINT/SIGTERM.
func WithSignals() Option {
	return func(r *Runner) {
		r.signals = true
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
