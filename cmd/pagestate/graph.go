package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/pagestate/internal/presentation/graph"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the transitions of a demo run as a diagram",
	Long: `Runs the demo headless until both sub-machines are loaded and outputs a
Mermaid diagram (stateDiagram-v2) of the recorded transitions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHost(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		ctx := cmd.Context()
		err = h.app.Engine.Run(ctx,
			runner.WithStopWhen(h.app.Done),
			runner.WithWorkers(cfg.Runner.Workers),
			runner.WithSignals(),
		)
		if err != nil {
			return err
		}

		events, err := h.trace.Recent(ctx, h.app.Engine.ID(), 0)
		if err != nil && !errors.Is(err, domain.ErrTraceNotFound) {
			return err
		}

		overlay := &graph.GraphOverlay{Active: h.app.Engine.Snapshot().Names()}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(events, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
