package main

import (
	"fmt"

	"github.com/aretw0/pagestate/internal/demo"
	"github.com/aretw0/pagestate/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [page.yaml]",
	Short: "Check a page tree against the demo states",
	Long:  `Parses a page tree and reports state cases that name unknown states or can never render.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("page")
		if len(args) > 0 {
			path = args[0]
		}

		states := demo.NewStates()
		tree, err := states.LoadPage(path)
		if err != nil {
			return err
		}
		if err := validator.ValidateTree(tree, states.Names()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Page is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
