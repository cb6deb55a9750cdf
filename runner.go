package pagestate

import (
	"context"

	"github.com/aretw0/pagestate/pkg/runner"
)

// Run drives the engine with a runner.Runner built from opts.
// It is a convenience wrapper for simple hosts.
func (e *Engine) Run(ctx context.Context, opts ...runner.Option) error {
	opts = append([]runner.Option{runner.WithLogger(e.logger)}, opts...)
	return runner.New(e, opts...).Run(ctx)
}
