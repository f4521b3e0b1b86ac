package stream

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning is the optional YAML file that seeds stream subscriptions and
// overrides the reconnect and heartbeat cadence.
type Tuning struct {
	Symbols          []string `yaml:"symbols"`
	ReconnectSeconds int      `yaml:"reconnect_seconds"`
	HeartbeatSeconds int      `yaml:"heartbeat_seconds"`
}

// LoadTuning reads and validates the tuning file at path.
func LoadTuning(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("stream tuning: read: %w", err)
	}
	var t Tuning
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tuning{}, fmt.Errorf("stream tuning: parse: %w", err)
	}
	if t.ReconnectSeconds < 0 {
		return Tuning{}, fmt.Errorf("stream tuning: reconnect_seconds %d is negative", t.ReconnectSeconds)
	}
	if t.HeartbeatSeconds < 0 {
		return Tuning{}, fmt.Errorf("stream tuning: heartbeat_seconds %d is negative", t.HeartbeatSeconds)
	}
	return t, nil
}

// Apply folds the tuning into cfg, leaving unset fields alone.
func (t Tuning) Apply(cfg *Config) {
	if len(t.Symbols) > 0 {
		cfg.Symbols = append(cfg.Symbols, t.Symbols...)
	}
	if t.ReconnectSeconds > 0 {
		cfg.ReconnectDelay = time.Duration(t.ReconnectSeconds) * time.Second
	}
	if t.HeartbeatSeconds > 0 {
		cfg.HeartbeatInterval = time.Duration(t.HeartbeatSeconds) * time.Second
	}
}
