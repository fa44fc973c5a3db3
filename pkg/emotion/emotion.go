// Package emotion classifies short audio clips into emotion categories.
//
// # Architecture
//
// The pipeline processes one clip in three stages:
//
//  1. Extractor.Extract: audio file → fixed 40-value feature vector
//  2. Classifier.Predict: feature vector → per-label probability scores
//  3. Analyzer.Analyze: composes both into a Result with derived fields
//
// The Manager owns the active Classifier. Initialize resolves a Config
// into either a classifier loaded from an on-disk weight artifact or a
// deterministic untrained fallback, so every stage after Initialize has
// a usable classifier and the analyze path never needs a "no model"
// branch.
//
// # Failure policy
//
// Every stage absorbs its own failures and degrades to a defined neutral
// value: extraction failures yield a zero feature vector, prediction
// failures yield a certain "neutral" score, and anything else surfaces as
// a degraded Result carrying only an error message. No per-clip failure
// propagates out of this package as an error.
package emotion

import "encoding/json"

// Default configuration values, applied when an init request omits them.
var DefaultLabels = []string{
	"neutral", "calm", "happy", "sad", "angry", "fearful", "disgust", "surprised",
}

const (
	DefaultModelPath = "./models/audio-emotion"
	DefaultModelType = ModelTypeFast

	// ModelTypeFast selects the lightweight two-hidden-layer fallback
	// architecture. Anything else selects the deeper three-layer one.
	ModelTypeFast     = "fast"
	ModelTypeAccurate = "accurate"

	// FeatureSize is the fixed classifier input width.
	FeatureSize = 40

	// NumCoeffs is the number of cepstral coefficients summarized per clip.
	NumCoeffs = 13
)

// Config selects the model and label set for a worker session.
// It arrives once via an init request and is read-only afterwards
// until a later init replaces it wholesale.
type Config struct {
	ModelPath     string   `json:"modelPath" yaml:"model_path"`
	ModelType     string   `json:"modelType" yaml:"model_type"`
	EmotionLabels []string `json:"emotionLabels" yaml:"emotion_labels"`
}

// withDefaults returns a copy with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.ModelPath == "" {
		c.ModelPath = DefaultModelPath
	}
	if c.ModelType == "" {
		c.ModelType = DefaultModelType
	}
	if len(c.EmotionLabels) == 0 {
		c.EmotionLabels = append([]string(nil), DefaultLabels...)
	}
	return c
}

// Scores maps each configured label to a probability in [0, 1].
type Scores map[string]float64

// Prediction is the classifier output for one feature vector.
// Emotion is the argmax label of Scores and Confidence its probability.
type Prediction struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Scores     Scores  `json:"scores"`
}

// Features is the deterministic per-clip feature set. Vector always has
// exactly FeatureSize entries; MFCC keeps the per-coefficient means for
// reporting.
type Features struct {
	Vector           []float64
	MFCC             []float64
	SpectralCentroid float64
	ZeroCrossingRate float64
	Energy           float64
}

// featureReport is the features object embedded in a Result.
type featureReport struct {
	MFCC             []float64 `json:"mfcc"`
	SpectralCentroid float64   `json:"spectralCentroid"`
	ZeroCrossingRate float64   `json:"zeroCrossingRate"`
	Energy           float64   `json:"energy"`
}

// Result is the outcome of analyzing one clip. A Result with a non-empty
// Err is degraded: it serializes as {sessionId, timestamp, error} only.
type Result struct {
	SessionID     string
	Timestamp     float64
	Emotion       string
	Confidence    float64
	Scores        Scores
	Features      Features
	VoiceActivity bool
	Duration      float64
	Err           string
}

// MarshalJSON emits either the full analysis shape or, when Err is set,
// the degraded {sessionId, timestamp, error} shape.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(struct {
			SessionID string  `json:"sessionId"`
			Timestamp float64 `json:"timestamp"`
			Error     string  `json:"error"`
		}{r.SessionID, r.Timestamp, r.Err})
	}
	return json.Marshal(struct {
		SessionID     string        `json:"sessionId"`
		Timestamp     float64       `json:"timestamp"`
		Emotion       string        `json:"emotion"`
		Confidence    float64       `json:"confidence"`
		Scores        Scores        `json:"scores"`
		Features      featureReport `json:"features"`
		VoiceActivity bool          `json:"voiceActivity"`
		Duration      float64       `json:"duration"`
	}{
		SessionID:  r.SessionID,
		Timestamp:  r.Timestamp,
		Emotion:    r.Emotion,
		Confidence: r.Confidence,
		Scores:     r.Scores,
		Features: featureReport{
			MFCC:             r.Features.MFCC,
			SpectralCentroid: r.Features.SpectralCentroid,
			ZeroCrossingRate: r.Features.ZeroCrossingRate,
			Energy:           r.Features.Energy,
		},
		VoiceActivity: r.VoiceActivity,
		Duration:      r.Duration,
	})
}
