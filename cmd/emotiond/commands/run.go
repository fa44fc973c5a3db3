package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emokit/emotiond/cmd/emotiond/internal/settings"
	"github.com/emokit/emotiond/pkg/worker"
)

var runSettingsFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the worker loop on stdin/stdout",
	Long: `Run the line-delimited JSON worker loop.

The worker prints a single READY line, then reads one JSON command per
input line and writes one JSON response per line, flushed immediately.
Commands:

  {"action": "init", "config": {"modelPath": ..., "modelType": "fast", "emotionLabels": [...]}}
  {"action": "analyze", "audioPath": ..., "sessionId": ..., "timestamp": ...}

A per-request failure never stops the loop; the process exits only when
stdin closes or stdout becomes unwritable.`,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	log := slog.Default()
	w := worker.New(log)

	// Optional local settings let the worker serve analyze requests
	// before (or without) a protocol init.
	if runSettingsFile != "" {
		s, err := settings.Load(runSettingsFile)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		applyLogLevel(s.LogLevel)
		w.Manager().Initialize(s.Model)
	}

	return w.Run(os.Stdin, os.Stdout)
}

func applyLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	case "", "info":
		return
	default:
		slog.Warn("unknown log level in settings", "level", level)
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func init() {
	runCmd.Flags().StringVarP(&runSettingsFile, "settings", "f", "", "YAML settings file")
	rootCmd.AddCommand(runCmd)
}
