package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emokit/emotiond/cmd/emotiond/internal/settings"
	"github.com/emokit/emotiond/pkg/emotion"
)

var (
	analyzeSettingsFile string
	analyzeModelPath    string
	analyzeModelType    string
	analyzeLabels       []string
	analyzeSessionID    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <audio-file>",
	Short: "Analyze a single audio file",
	Long: `Analyze one audio file outside the worker loop and print the
result as indented JSON on stdout.

The model is resolved exactly as in the worker: a weight artifact at
<model-path>/<model-type>_model.bin when present, an untrained fallback
otherwise.

Examples:
  emotiond analyze clip.wav
  emotiond analyze --model-type accurate --labels neutral,happy,sad clip.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	cfg := emotion.Config{
		ModelPath:     analyzeModelPath,
		ModelType:     analyzeModelType,
		EmotionLabels: analyzeLabels,
	}
	if analyzeSettingsFile != "" {
		s, err := settings.Load(analyzeSettingsFile)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		cfg = s.Model
	}

	sessionID := analyzeSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	manager := emotion.NewManager(log)
	manager.Initialize(cfg)
	analyzer := emotion.NewAnalyzer(manager, log)

	result := analyzer.Analyze(args[0], sessionID, float64(time.Now().UnixMilli()))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSettingsFile, "settings", "f", "", "YAML settings file")
	analyzeCmd.Flags().StringVar(&analyzeModelPath, "model-path", "", "model artifact directory")
	analyzeCmd.Flags().StringVar(&analyzeModelType, "model-type", "", `model type ("fast" or "accurate")`)
	analyzeCmd.Flags().StringSliceVar(&analyzeLabels, "labels", nil, "comma-separated emotion labels")
	analyzeCmd.Flags().StringVar(&analyzeSessionID, "session", "", "session id (generated when empty)")
	rootCmd.AddCommand(analyzeCmd)
}
