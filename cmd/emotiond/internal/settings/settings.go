// Package settings loads optional worker settings from a YAML file.
//
// Settings provide local defaults for supervisors that do not send an
// init command, and for the one-shot analyze command. A protocol init
// still replaces them at runtime.
package settings

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/emokit/emotiond/pkg/emotion"
)

// Settings mirrors the init-command configuration plus local options.
type Settings struct {
	Model emotion.Config `yaml:"model"`

	// LogLevel overrides the default log level ("debug", "info",
	// "warn", "error").
	LogLevel string `yaml:"log_level,omitempty"`
}

// Load reads and parses a settings file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return &s, nil
}
