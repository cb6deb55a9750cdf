package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/pagestate/pkg/adapters/http"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo and serve it over HTTP",
	Long: `Runs the demo host in the background and exposes the rendered page, the
current snapshot, a stream of snapshot diffs, the recorded trace and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		h, err := newHost(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		ctx := signals.Context()

		server := httpAdapter.NewServer(h.app.Engine,
			httpAdapter.WithTree(h.page...),
			httpAdapter.WithTitle("pagestate demo"),
			httpAdapter.WithTraceSink(h.trace),
			httpAdapter.WithGatherer(h.registry),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errs := make(chan error, 2)
		go func() {
			logger.Info("starting server", "addr", srv.Addr, "machine_id", h.app.Engine.ID())
			errs <- srv.ListenAndServe()
		}()
		go func() {
			errs <- h.app.Engine.Run(ctx,
				runner.WithTree(h.page...),
				runner.WithOutput(server),
				runner.WithOutput(h.metrics.Output()),
				runner.WithWorkers(cfg.Runner.Workers),
			)
		}()

		select {
		case err := <-errs:
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
		}

		logger.Info("shutting down", "timeout", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		logger.Info("server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
