package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/pagestate/internal/config"
	"github.com/aretw0/pagestate/internal/logging"
	"github.com/spf13/cobra"
)

var (
	v      = config.New()
	cfg    config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pagestate",
	Short: "pagestate drives a page from a set of active states",
	Long: `pagestate runs a demo host of the page-state engine: two sub-machines load a
user and then the user's posts, and the page re-renders after every transition.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(v, path)
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(c.Log.Level)
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(level, c.Log.Format)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./pagestate.yaml or $PAGESTATE_CONFIG)")
	flags.String("page", "", "Page tree YAML file ('builtin.yaml' for the embedded one)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.Duration("user-delay", 2*time.Second, "Simulated latency of the user API")
	flags.Duration("posts-delay", 3*time.Second, "Simulated latency of the posts API")
	flags.String("context-policy", "carry", "Context of the entered state when none is passed (carry, reset)")
	flags.String("redis-addr", "", "Record traces to this Redis server")
	flags.Int("workers", 4, "Async entry hook workers")
	flags.Bool("trace", false, "Export OpenTelemetry spans to stderr")

	bind := map[string]string{
		"log.level":              "log-level",
		"log.format":             "log-format",
		"demo.user_delay":        "user-delay",
		"demo.posts_delay":       "posts-delay",
		"machine.context_policy": "context-policy",
		"redis.addr":             "redis-addr",
		"runner.workers":         "workers",
		"trace.stdout":           "trace",
	}
	for key, name := range bind {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
