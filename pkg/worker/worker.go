// Package worker implements the line-delimited JSON request loop of the
// emotion analysis worker.
//
// The worker reads one JSON command per input line, dispatches it, and
// writes exactly one JSON response line, flushed immediately so the
// supervising process sees each result without buffering delay. A single
// literal "READY" line precedes all responses.
//
// Every per-line failure — malformed JSON, unknown action, analysis
// panic — is converted into an {"error": ...} response and the loop
// moves on. The only fatal condition is being unable to write to the
// output stream.
package worker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emokit/emotiond/pkg/emotion"
)

// readySentinel is emitted once before any request is read.
const readySentinel = "READY"

// request is one decoded command line.
type request struct {
	Action    string          `json:"action"`
	Config    *emotion.Config `json:"config"`
	AudioPath string          `json:"audioPath"`
	SessionID string          `json:"sessionId"`
	Timestamp float64         `json:"timestamp"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type analyzeResponse struct {
	Result    *emotion.Result `json:"result"`
	SessionID string          `json:"sessionId"`
	Timestamp float64         `json:"timestamp"`
}

// Worker drives the protocol loop over a manager/analyzer pair.
type Worker struct {
	manager  *emotion.Manager
	analyzer *emotion.Analyzer
	log      *slog.Logger
}

// New creates a Worker with a fresh, uninitialized model manager.
func New(log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	m := emotion.NewManager(log)
	return &Worker{
		manager:  m,
		analyzer: emotion.NewAnalyzer(m, log),
		log:      log,
	}
}

// Manager returns the worker's model manager, e.g. to pre-initialize it
// from local settings before the loop starts.
func (w *Worker) Manager() *emotion.Manager { return w.manager }

// Run processes commands from r until EOF, writing responses to out.
// Each input line yields exactly one output line. Run returns a non-nil
// error only for process-level failures: the output stream rejecting a
// write, or the input stream failing mid-read.
func (w *Worker) Run(r io.Reader, out io.Writer) error {
	bw := bufio.NewWriter(out)
	if _, err := fmt.Fprintln(bw, readySentinel); err != nil {
		return fmt.Errorf("worker: write ready: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("worker: write ready: %w", err)
	}

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		// The empty fragment after a trailing newline is not a line.
		if line != "" {
			if werr := w.respond(bw, w.handleLine(strings.TrimRight(line, "\r\n"))); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("worker: read input: %w", err)
		}
	}
}

// respond writes one response line and flushes it.
func (w *Worker) respond(bw *bufio.Writer, resp any) error {
	data, err := json.Marshal(resp)
	if err != nil {
		// Responses are built from plain maps and structs; this is
		// unreachable in practice but must still produce a line.
		data, _ = json.Marshal(errorResponse{Error: err.Error()})
	}
	if _, err := bw.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("worker: write response: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("worker: write response: %w", err)
	}
	return nil
}

// handleLine dispatches one command line. It never lets a failure
// escape: malformed input and panics both become error responses.
func (w *Worker) handleLine(line string) (resp any) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("request panicked", "panic", r)
			resp = errorResponse{Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	var req request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return errorResponse{Error: fmt.Sprintf("invalid request: %v", err)}
	}

	switch req.Action {
	case "init":
		if req.Config == nil {
			return errorResponse{Error: "init: missing config"}
		}
		w.manager.Initialize(*req.Config)
		return statusResponse{Status: "initialized"}

	case "analyze":
		if req.AudioPath == "" {
			return errorResponse{Error: "analyze: missing audioPath"}
		}
		result := w.analyzer.Analyze(req.AudioPath, req.SessionID, req.Timestamp)
		return analyzeResponse{
			Result:    result,
			SessionID: req.SessionID,
			Timestamp: req.Timestamp,
		}

	default:
		return errorResponse{Error: fmt.Sprintf("Unknown action: %s", req.Action)}
	}
}
