package main

import (
	"github.com/alitto/pond/v2"
	"github.com/aretw0/pagestate/internal/presentation/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the demo in an interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHost(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		ctx := cmd.Context()
		pool := pond.NewPool(cfg.Runner.Workers, pond.WithContext(ctx))
		defer pool.StopAndWait()
		h.app.Engine.UseExecutor(func(task func()) {
			pool.Submit(task)
		})

		width := tui.TerminalWidth()
		var opts []tui.Option
		if r, err := tui.NewRenderer(width-6, ""); err == nil {
			opts = append(opts, tui.WithRenderer(r))
		}
		opts = append(opts, tui.WithTitle("pagestate demo"), tui.WithDone(h.app.Done))

		model := tui.NewModel(ctx, h.app.Engine, h.page, opts...)
		_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
