package emotion

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func newTestAnalyzer(t *testing.T, labels []string) *Analyzer {
	t.Helper()
	m := NewManager(nil)
	m.Initialize(Config{
		ModelPath:     filepath.Join(t.TempDir(), "no-models-here"),
		EmotionLabels: labels,
	})
	return NewAnalyzer(m, nil)
}

func TestAnalyzeCompleteResult(t *testing.T) {
	a := newTestAnalyzer(t, testLabels)
	path := writeTestWAV(t, 440, 1.0, 48000)

	res := a.Analyze(path, "sess-1", 1234.5)
	if res.Err != "" {
		t.Fatalf("unexpected degraded result: %s", res.Err)
	}
	if res.SessionID != "sess-1" || res.Timestamp != 1234.5 {
		t.Errorf("session/timestamp not echoed: %s/%f", res.SessionID, res.Timestamp)
	}
	if len(res.Scores) != len(testLabels) {
		t.Errorf("got %d scores, want %d", len(res.Scores), len(testLabels))
	}
	if res.Scores[res.Emotion] != res.Confidence {
		t.Errorf("confidence %f != score of %s", res.Confidence, res.Emotion)
	}
	if res.Duration != 1.0 {
		t.Errorf("duration = %f, want the fixed 1.0", res.Duration)
	}
	// A half-amplitude sine has RMS well above the voice threshold.
	if !res.VoiceActivity {
		t.Error("voiceActivity = false for a loud clip")
	}
}

func TestAnalyzeMissingFileStillCompletes(t *testing.T) {
	a := newTestAnalyzer(t, testLabels)

	res := a.Analyze(filepath.Join(t.TempDir(), "missing.wav"), "s", 1)
	if res.Err != "" {
		t.Fatalf("extraction failure must degrade to zero features, not an error: %s", res.Err)
	}
	if len(res.Scores) != len(testLabels) {
		t.Errorf("got %d scores, want %d", len(res.Scores), len(testLabels))
	}
	if res.VoiceActivity {
		t.Error("voiceActivity = true for a zero-energy result")
	}
}

func TestAnalyzeUninitialized(t *testing.T) {
	a := NewAnalyzer(NewManager(nil), nil)
	res := a.Analyze("whatever.wav", "s", 2)
	if res.Err == "" {
		t.Fatal("expected degraded result before init")
	}
	if res.SessionID != "s" || res.Timestamp != 2 {
		t.Errorf("degraded result must echo session/timestamp: %+v", res)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := newTestAnalyzer(t, testLabels)
	path := writeTestWAV(t, 440, 0.5, 48000)

	r1 := a.Analyze(path, "s", 1)
	r2 := a.Analyze(path, "s", 1)
	if r1.Emotion != r2.Emotion || r1.Confidence != r2.Confidence {
		t.Errorf("repeated analyze differs: %s/%f vs %s/%f",
			r1.Emotion, r1.Confidence, r2.Emotion, r2.Confidence)
	}
}

func TestVoiceActiveBoundary(t *testing.T) {
	if voiceActive(0.01) {
		t.Error("energy exactly 0.01 must not count as voice")
	}
	if !voiceActive(0.0100001) {
		t.Error("energy just above 0.01 must count as voice")
	}
	if voiceActive(0) {
		t.Error("zero energy must not count as voice")
	}
}

func TestResultMarshalSuccessShape(t *testing.T) {
	res := &Result{
		SessionID:  "s1",
		Timestamp:  7,
		Emotion:    "happy",
		Confidence: 0.9,
		Scores:     Scores{"happy": 0.9, "sad": 0.1},
		Features: Features{
			Vector: make([]float64, FeatureSize),
			MFCC:   make([]float64, NumCoeffs),
		},
		VoiceActivity: true,
		Duration:      1.0,
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"sessionId", "timestamp", "emotion", "confidence", "scores", "features", "voiceActivity", "duration"} {
		if _, ok := m[key]; !ok {
			t.Errorf("success result missing %q", key)
		}
	}
	if _, ok := m["error"]; ok {
		t.Error("success result must not carry an error field")
	}
	features, ok := m["features"].(map[string]any)
	if !ok {
		t.Fatalf("features is %T, want object", m["features"])
	}
	for _, key := range []string{"mfcc", "spectralCentroid", "zeroCrossingRate", "energy"} {
		if _, ok := features[key]; !ok {
			t.Errorf("features missing %q", key)
		}
	}
}

func TestResultMarshalDegradedShape(t *testing.T) {
	res := &Result{SessionID: "s1", Timestamp: 7, Err: "boom"}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if len(m) != 3 {
		t.Errorf("degraded result has %d fields, want 3: %v", len(m), m)
	}
	if m["error"] != "boom" || m["sessionId"] != "s1" {
		t.Errorf("unexpected degraded payload: %v", m)
	}
}
