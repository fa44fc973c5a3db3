package emotion

import (
	"fmt"
	"log/slog"
)

const (
	// voiceActivityThreshold is the RMS energy above which a clip is
	// flagged as containing voice. Strictly greater-than: a clip at
	// exactly the threshold does not count.
	voiceActivityThreshold = 0.01

	// reportedDuration is the fixed duration field of every result.
	// The analysis window is 3 s, but consumers of this protocol have
	// always been handed 1.0; keep it until an accurate value is
	// coordinated with them.
	reportedDuration = 1.0
)

// voiceActive reports whether an RMS energy counts as voice activity.
func voiceActive(energy float64) bool {
	return energy > voiceActivityThreshold
}

// Analyzer composes feature extraction and classification into a Result.
type Analyzer struct {
	extractor *Extractor
	manager   *Manager
	log       *slog.Logger
}

// NewAnalyzer creates an Analyzer using manager's active classifier.
func NewAnalyzer(manager *Manager, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{
		extractor: NewExtractor(log),
		manager:   manager,
		log:       log,
	}
}

// Analyze runs the full pipeline for one clip. It always returns a
// well-formed Result: extraction and prediction degrade internally, and
// anything that still escapes (including panics) becomes a degraded
// Result carrying only the error message.
func (a *Analyzer) Analyze(audioPath, sessionID string, timestamp float64) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("analysis panicked", "path", audioPath, "panic", r)
			res = &Result{
				SessionID: sessionID,
				Timestamp: timestamp,
				Err:       fmt.Sprintf("analysis failed: %v", r),
			}
		}
	}()

	clf := a.manager.Classifier()
	if clf == nil {
		return &Result{
			SessionID: sessionID,
			Timestamp: timestamp,
			Err:       "analyzer not initialized",
		}
	}

	// A degraded zero-vector still flows through prediction so the
	// result shape is always complete.
	features := a.extractor.Extract(audioPath)
	pred := clf.Predict(features.Vector)

	return &Result{
		SessionID:     sessionID,
		Timestamp:     timestamp,
		Emotion:       pred.Emotion,
		Confidence:    pred.Confidence,
		Scores:        pred.Scores,
		Features:      features,
		VoiceActivity: voiceActive(features.Energy),
		Duration:      reportedDuration,
	}
}
