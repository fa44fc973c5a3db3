package emotion

import (
	"log/slog"
	"os"
)

// Manager owns the active classifier and its configuration.
//
// Initialize is replace-on-call: each invocation resolves the given
// Config into a fresh classifier and swaps it in wholesale. It never
// fails — when no artifact exists or deserialization breaks, an
// untrained fallback of matching label cardinality takes its place, so
// downstream analysis always has a usable classifier.
//
// The worker is single-threaded by design: every protocol command runs
// to completion on one goroutine, so the Manager needs no locking.
type Manager struct {
	log *slog.Logger
	cfg Config
	clf Classifier
}

// NewManager creates an uninitialized Manager.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{log: log}
}

// Initialize resolves cfg into an active classifier.
func (m *Manager) Initialize(cfg Config) {
	cfg = cfg.withDefaults()
	m.cfg = cfg

	path := ArtifactPath(cfg.ModelPath, cfg.ModelType)
	if _, err := os.Stat(path); err == nil {
		net, err := LoadArtifact(path, cfg.EmotionLabels)
		if err == nil {
			m.clf = net
			m.log.Info("loaded model artifact",
				"path", path, "type", cfg.ModelType, "labels", len(cfg.EmotionLabels))
			return
		}
		m.log.Warn("failed to load model artifact, using fallback",
			"path", path, "error", err)
	} else {
		m.log.Info("model artifact not found, using fallback",
			"path", path, "type", cfg.ModelType)
	}

	m.clf = NewFallback(cfg.ModelType, cfg.EmotionLabels)
	m.log.Info("created fallback model",
		"type", cfg.ModelType, "labels", len(cfg.EmotionLabels))
}

// Classifier returns the active classifier, or nil before the first
// Initialize.
func (m *Manager) Classifier() Classifier { return m.clf }

// Config returns the configuration of the active classifier.
func (m *Manager) Config() Config { return m.cfg }
