package worker

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runWorker feeds input lines to a fresh worker and returns the output
// lines (including the READY sentinel).
func runWorker(t *testing.T, lines ...string) []string {
	t.Helper()

	input := ""
	if len(lines) > 0 {
		input = strings.Join(lines, "\n") + "\n"
	}

	var out bytes.Buffer
	w := New(nil)
	if err := w.Run(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var got []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	return got
}

// writeTestWAV writes a short 16-bit mono sine clip and returns its path.
func writeTestWAV(t *testing.T) string {
	t.Helper()

	sampleRate := 48000
	n := sampleRate / 2
	var data bytes.Buffer
	for i := 0; i < n; i++ {
		s := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		binary.Write(&data, binary.LittleEndian, int16(s*32767))
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func initLine(t *testing.T, modelPath string, labels ...string) string {
	t.Helper()
	req := map[string]any{
		"action": "init",
		"config": map[string]any{
			"modelPath":     modelPath,
			"modelType":     "fast",
			"emotionLabels": labels,
		},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestReadySentinelFirst(t *testing.T) {
	got := runWorker(t)
	if len(got) != 1 || got[0] != "READY" {
		t.Fatalf("output = %v, want just READY", got)
	}
}

func TestInitResponds(t *testing.T) {
	got := runWorker(t, initLine(t, t.TempDir(), "neutral", "happy"))
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(got), got)
	}
	var resp map[string]string
	if err := json.Unmarshal([]byte(got[1]), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp["status"] != "initialized" {
		t.Errorf("status = %q, want initialized", resp["status"])
	}
}

func TestInitMissingArtifactStillInitializes(t *testing.T) {
	got := runWorker(t,
		initLine(t, filepath.Join(t.TempDir(), "definitely-missing"), "neutral", "happy"),
		fmt.Sprintf(`{"action":"analyze","audioPath":%q,"sessionId":"s1","timestamp":1}`, writeTestWAV(t)),
	)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(got), got)
	}
	if !strings.Contains(got[1], "initialized") {
		t.Errorf("init response = %s", got[1])
	}
	var resp struct {
		Result struct {
			Emotion string             `json:"emotion"`
			Scores  map[string]float64 `json:"scores"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(got[2]), &resp); err != nil {
		t.Fatalf("analyze response is not JSON: %v", err)
	}
	if len(resp.Result.Scores) != 2 {
		t.Errorf("got %d scores, want 2: %v", len(resp.Result.Scores), resp.Result.Scores)
	}
}

func TestAnalyzeRoundTrip(t *testing.T) {
	path := writeTestWAV(t)
	got := runWorker(t,
		initLine(t, t.TempDir(), "neutral", "happy"),
		fmt.Sprintf(`{"action":"analyze","audioPath":%q,"sessionId":"sess-42","timestamp":99.5}`, path),
	)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(got), got)
	}

	var resp struct {
		Result struct {
			SessionID     string             `json:"sessionId"`
			Emotion       string             `json:"emotion"`
			Confidence    float64            `json:"confidence"`
			Scores        map[string]float64 `json:"scores"`
			VoiceActivity bool               `json:"voiceActivity"`
			Duration      float64            `json:"duration"`
		} `json:"result"`
		SessionID string  `json:"sessionId"`
		Timestamp float64 `json:"timestamp"`
	}
	if err := json.Unmarshal([]byte(got[2]), &resp); err != nil {
		t.Fatalf("analyze response is not JSON: %v", err)
	}
	if resp.SessionID != "sess-42" || resp.Timestamp != 99.5 {
		t.Errorf("envelope session/timestamp = %s/%f", resp.SessionID, resp.Timestamp)
	}
	if resp.Result.SessionID != "sess-42" {
		t.Errorf("result sessionId = %s", resp.Result.SessionID)
	}

	// Scores keys are exactly the configured labels.
	if _, ok := resp.Result.Scores["neutral"]; !ok {
		t.Error("missing neutral score")
	}
	if _, ok := resp.Result.Scores["happy"]; !ok {
		t.Error("missing happy score")
	}
	if len(resp.Result.Scores) != 2 {
		t.Errorf("scores = %v, want exactly 2 entries", resp.Result.Scores)
	}
	if resp.Result.Emotion != "neutral" && resp.Result.Emotion != "happy" {
		t.Errorf("emotion %q is not a configured label", resp.Result.Emotion)
	}
	if resp.Result.Duration != 1.0 {
		t.Errorf("duration = %f, want 1.0", resp.Result.Duration)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	path := writeTestWAV(t)
	line := fmt.Sprintf(`{"action":"analyze","audioPath":%q,"sessionId":"s","timestamp":1}`, path)
	got := runWorker(t, initLine(t, t.TempDir(), "neutral", "happy"), line, line)
	if len(got) != 4 {
		t.Fatalf("got %d lines, want 4: %v", len(got), got)
	}
	if got[2] != got[3] {
		t.Errorf("identical analyze requests differ:\n%s\n%s", got[2], got[3])
	}
}

func TestMalformedLineResilience(t *testing.T) {
	got := runWorker(t,
		"not valid json",
		initLine(t, t.TempDir(), "neutral"),
	)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3 (one response per input line): %v", len(got), got)
	}

	var errResp map[string]string
	if err := json.Unmarshal([]byte(got[1]), &errResp); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	if errResp["error"] == "" {
		t.Errorf("expected error response, got %v", errResp)
	}
	if !strings.Contains(got[2], "initialized") {
		t.Errorf("worker did not recover after malformed line: %s", got[2])
	}
}

func TestUnknownAction(t *testing.T) {
	got := runWorker(t, `{"action":"dance"}`)
	var resp map[string]string
	if err := json.Unmarshal([]byte(got[1]), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "Unknown action: dance" {
		t.Errorf("error = %q, want %q", resp["error"], "Unknown action: dance")
	}
}

func TestInitWithoutConfig(t *testing.T) {
	got := runWorker(t, `{"action":"init"}`)
	if !strings.Contains(got[1], "error") {
		t.Errorf("expected error response, got %s", got[1])
	}
}

func TestAnalyzeWithoutPath(t *testing.T) {
	got := runWorker(t, initLine(t, t.TempDir(), "neutral"), `{"action":"analyze"}`)
	if !strings.Contains(got[2], "error") {
		t.Errorf("expected error response, got %s", got[2])
	}
}

func TestAnalyzeBeforeInitDegrades(t *testing.T) {
	got := runWorker(t, `{"action":"analyze","audioPath":"x.wav","sessionId":"s","timestamp":3}`)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(got), got)
	}
	var resp struct {
		Result struct {
			SessionID string  `json:"sessionId"`
			Timestamp float64 `json:"timestamp"`
			Error     string  `json:"error"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(got[1]), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.Error == "" {
		t.Errorf("expected degraded result, got %s", got[1])
	}
	if resp.Result.SessionID != "s" || resp.Result.Timestamp != 3 {
		t.Errorf("degraded result must echo session/timestamp: %s", got[1])
	}
}

func TestCRLFInput(t *testing.T) {
	var out bytes.Buffer
	w := New(nil)
	if err := w.Run(strings.NewReader("{\"action\":\"dance\"}\r\n"), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Unknown action: dance") {
		t.Errorf("CRLF line not handled: %s", out.String())
	}
}

func TestBlankLineGetsErrorResponse(t *testing.T) {
	got := runWorker(t, "", `{"action":"dance"}`)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want one response per input line: %v", len(got), got)
	}
	if !strings.Contains(got[1], "error") {
		t.Errorf("blank line response = %s, want an error", got[1])
	}
}
