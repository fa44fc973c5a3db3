package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "emotiond",
	Short: "Audio emotion analysis worker",
	Long: `emotiond - A long-lived worker that classifies short audio clips
into emotion categories.

The worker is normally supervised by a parent process and driven over a
line-delimited JSON protocol on stdin/stdout ('emotiond run'). All
diagnostics go to stderr; stdout carries only protocol lines.

Examples:
  # Run the worker loop under a supervisor
  emotiond run

  # Run with models pre-loaded from a settings file
  emotiond run --settings worker.yaml

  # Analyze one file directly
  emotiond analyze --model-path ./models/audio-emotion clip.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initLogging routes all diagnostics to stderr, keeping stdout free for
// protocol output.
func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
