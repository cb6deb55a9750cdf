package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alitto/pond/v2"
	"github.com/aretw0/pagestate/internal/logging"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/view"
	"go.uber.org/atomic"
)

// Host is the engine surface the Runner drives.
type Host interface {
	Pass(ctx context.Context) int
	Changed() <-chan struct{}
	Frame(tree ...view.Node) (*domain.Snapshot, []view.Node)
	UseExecutor(exec func(task func()))
}

// Frame is one render of the page.
type Frame struct {
	Snapshot *domain.Snapshot
	Nodes    []view.Node
}

// Runner handles the execution loop of the engine.
type Runner struct {
	host       Host
	tree       []view.Node
	outputs    []Output
	workers    int
	stopWhen   func(*domain.Snapshot) bool
	exitOnIdle bool
	signals    bool
	logger     *slog.Logger

	started  *atomic.Bool
	inflight *atomic.Int64
	finished chan struct{}
}

// New creates a Runner for host.
func New(host Host, opts ...Option) *Runner {
	r := &Runner{
		host:     host,
		workers:  DefaultWorkers,
		logger:   logging.NewNop(),
		started:  atomic.NewBool(false),
		inflight: atomic.NewInt64(0),
		finished: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run alternates passes and renders until a stop condition holds or ctx ends.
// It returns nil on a stop condition and ctx's error on cancellation.
// A Runner can only be run once.
func (r *Runner) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return domain.ErrRunnerStopped
	}

	if r.signals {
		signals := NewSignalManager(ctx)
		defer signals.Stop()
		ctx = signals.Context()
	}

	pool := pond.NewPool(r.workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	r.host.UseExecutor(func(task func()) {
		r.inflight.Inc()
		pool.Submit(func() {
			defer func() {
				r.inflight.Dec()
				select {
				case r.finished <- struct{}{}:
				default:
				}
			}()
			task()
		})
	})

	var (
		lastGen  uint64
		rendered bool
		changed  = r.host.Changed()
	)

	for {
		fired := r.host.Pass(ctx)
		snap, nodes := r.host.Frame(r.tree...)
		r.logger.Debug("pass", "fired", fired, "generation", snap.Generation, "active", snap.Names())

		if !rendered || snap.Generation != lastGen {
			if err := r.emit(ctx, Frame{Snapshot: snap, Nodes: nodes}); err != nil {
				return err
			}
			rendered = true
			lastGen = snap.Generation
		}

		if r.stopWhen != nil && r.stopWhen(snap) {
			r.logger.Debug("stop condition reached", "generation", snap.Generation)
			return nil
		}
		// In-flight tasks signal before they finish, so check them first.
		if r.exitOnIdle && r.inflight.Load() == 0 && len(changed) == 0 {
			r.logger.Debug("idle", "generation", snap.Generation)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		case <-r.finished:
		}
	}
}

func (r *Runner) emit(ctx context.Context, frame Frame) error {
	for _, out := range r.outputs {
		if err := out.Write(ctx, frame); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
	}
	return nil
}
