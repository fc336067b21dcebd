package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Global flags shared by all subcommands.
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "Synapse - Autonomous Last-Mile Incident Resolution",
	Long: `Synapse is an autonomous problem-solving loop for last-mile
logistics incidents. It reasons about an incident with an LLM oracle,
executes operational actions against a simulated fleet, adapts when
actions fail, and produces a resolution plan for the human operator.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// newLogger builds the process logger. Verbose runs get debug-level
// output; everything goes to stderr so stdout stays clean for results.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(versionCmd)
}
