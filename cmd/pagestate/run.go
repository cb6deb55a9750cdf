package main

import (
	"github.com/aretw0/pagestate/internal/presentation/tui"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo and print every render",
	Long: `Runs the demo host and prints the page after every transition until both
the user and the posts are loaded, or the process is interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		raw, _ := cmd.Flags().GetBool("raw")

		h, err := newHost(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		out := cmd.OutOrStdout()
		if !noBanner {
			tui.PrintBanner(out)
		}

		var renderer runner.ContentRenderer
		if !raw {
			if r, err := tui.NewRenderer(tui.TerminalWidth(), ""); err == nil {
				renderer = r
			} else {
				logger.Warn("markdown renderer unavailable, printing raw", "error", err)
			}
		}

		stop := h.app.Done
		if once {
			stop = func(*domain.Snapshot) bool { return true }
		}

		return h.app.Engine.Run(cmd.Context(),
			runner.WithTree(h.page...),
			runner.WithOutput(runner.NewTextOutput(out, renderer)),
			runner.WithOutput(h.metrics.Output()),
			runner.WithWorkers(cfg.Runner.Workers),
			runner.WithStopWhen(stop),
			runner.WithSignals(),
		)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("once", false, "Render the initial page and exit")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	runCmd.Flags().Bool("raw", false, "Print Markdown without terminal styling")
}
