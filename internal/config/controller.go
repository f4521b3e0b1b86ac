package config

import (
	"strings"
	"time"
)

// Config holds all configuration for the stockly controller daemon.
type Config struct {
	// twelvedata access
	APIKey  string
	BaseURL string
	WSURL   string

	// HTTP API binding
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// Watchlist persistence
	StorePath string

	// Intent handling
	DebounceMS    int
	HTTPTimeoutMS int

	// Price stream
	StreamEnabled bool
	StreamConfig  string

	// Event feed
	FeedBuffer int

	// Quote journal; empty JournalDir disables it
	JournalDir   string
	JournalMaxMB int

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and an optional .env
// file.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIKey:           getEnvOrDefault("TWELVEDATA_API_KEY", "demo"),
		BaseURL:          getEnvOrDefault("TWELVEDATA_BASE_URL", "https://api.twelvedata.com"),
		WSURL:            getEnvOrDefault("TWELVEDATA_WS_URL", ""),
		BindAddr:         getEnvOrDefault("STOCKLY_BIND_ADDR", "127.0.0.1:8098"),
		PortCandidates:   getEnvListOrDefault("STOCKLY_PORT_CANDIDATES", nil),
		PortAutoFallback: getEnvBoolOrDefault("STOCKLY_PORT_AUTO_FALLBACK", true),
		StorePath:        getEnvOrDefault("STOCKLY_STORE_PATH", "./data/watchlist.db"),
		DebounceMS:       getEnvIntOrDefault("STOCKLY_DEBOUNCE_MS", 500),
		HTTPTimeoutMS:    getEnvIntOrDefault("STOCKLY_HTTP_TIMEOUT_MS", 10000),
		StreamEnabled:    getEnvBoolOrDefault("STOCKLY_STREAM_ENABLED", true),
		StreamConfig:     getEnvOrDefault("STOCKLY_STREAM_CONFIG", ""),
		FeedBuffer:       getEnvIntOrDefault("STOCKLY_FEED_BUFFER", 64),
		JournalDir:       getEnvOrDefault("STOCKLY_JOURNAL_DIR", ""),
		JournalMaxMB:     getEnvIntOrDefault("STOCKLY_JOURNAL_MAX_MB", 25),
		LogLevel:         strings.ToLower(getEnvOrDefault("STOCKLY_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("STOCKLY_LOG_FILE", "logs/stockly_controller.log"),
	}
	if cfg.DebounceMS < 50 {
		cfg.DebounceMS = 50
	}
	if cfg.HTTPTimeoutMS < 0 {
		cfg.HTTPTimeoutMS = 0
	}
	if cfg.FeedBuffer < 1 {
		cfg.FeedBuffer = 1
	}
	if cfg.JournalMaxMB < 1 {
		cfg.JournalMaxMB = 1
	}
	return cfg, nil
}

// Debounce returns the search quiescence window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// HTTPTimeout returns the REST client timeout; zero disables it.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}
