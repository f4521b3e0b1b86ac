package stream

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}
	return path
}

func TestLoadTuning(t *testing.T) {
	path := writeTuning(t, "symbols:\n  - AAPL\n  - TSLA\nreconnect_seconds: 2\nheartbeat_seconds: 15\n")

	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() error = %v", err)
	}
	if !reflect.DeepEqual(tun.Symbols, []string{"AAPL", "TSLA"}) {
		t.Fatalf("Symbols = %v; want [AAPL TSLA]", tun.Symbols)
	}
	if tun.ReconnectSeconds != 2 || tun.HeartbeatSeconds != 15 {
		t.Fatalf("tuning = %+v; want reconnect 2 heartbeat 15", tun)
	}

	cfg := Config{Symbols: []string{"MSFT"}}
	tun.Apply(&cfg)
	if !reflect.DeepEqual(cfg.Symbols, []string{"MSFT", "AAPL", "TSLA"}) {
		t.Fatalf("cfg.Symbols = %v; want tuning symbols appended", cfg.Symbols)
	}
	if cfg.ReconnectDelay != 2*time.Second {
		t.Fatalf("cfg.ReconnectDelay = %v; want 2s", cfg.ReconnectDelay)
	}
	if cfg.HeartbeatInterval != 15*time.Second {
		t.Fatalf("cfg.HeartbeatInterval = %v; want 15s", cfg.HeartbeatInterval)
	}
}

func TestLoadTuning_Errors(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadTuning(missing) = nil; want error")
	}
	if _, err := LoadTuning(writeTuning(t, "symbols: [AAPL\n")); err == nil {
		t.Fatal("LoadTuning(bad yaml) = nil; want error")
	}
	if _, err := LoadTuning(writeTuning(t, "reconnect_seconds: -1\n")); err == nil {
		t.Fatal("LoadTuning(negative reconnect) = nil; want error")
	}
	if _, err := LoadTuning(writeTuning(t, "heartbeat_seconds: -5\n")); err == nil {
		t.Fatal("LoadTuning(negative heartbeat) = nil; want error")
	}
}

func TestTuningApply_ZeroLeavesConfigAlone(t *testing.T) {
	cfg := Config{
		ReconnectDelay:    7 * time.Second,
		HeartbeatInterval: 9 * time.Second,
	}
	Tuning{}.Apply(&cfg)
	if cfg.ReconnectDelay != 7*time.Second || cfg.HeartbeatInterval != 9*time.Second {
		t.Fatalf("cfg = %+v; want untouched by zero tuning", cfg)
	}
	if len(cfg.Symbols) != 0 {
		t.Fatalf("cfg.Symbols = %v; want empty", cfg.Symbols)
	}
}
