package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pagestate"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pagestate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pagestate version %s\n", strings.TrimSpace(pagestate.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
