package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	def := DefaultConfig()
	if cfg != def {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPathMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "client:\n  socketUrl: ws://example.test/socket\n  typingDebounce: 500ms\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadFromPath(path)
	if cfg.SocketURL != "ws://example.test/socket" {
		t.Fatalf("socket url not merged: %q", cfg.SocketURL)
	}
	if cfg.TypingDebounce != 500*time.Millisecond {
		t.Fatalf("typing debounce not merged: %v", cfg.TypingDebounce)
	}
	if cfg.APIBaseURL != DefaultConfig().APIBaseURL {
		t.Fatalf("unset field should keep default, got %q", cfg.APIBaseURL)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ZAP_SOCKET_URL", "ws://env.test")
	t.Setenv("ZAP_TYPING_DEBOUNCE_MS", "250")

	cfg := DefaultConfig()
	ApplyEnvOverrides(&cfg)
	if cfg.SocketURL != "ws://env.test" {
		t.Fatalf("env socket url not applied: %q", cfg.SocketURL)
	}
	if cfg.TypingDebounce != 250*time.Millisecond {
		t.Fatalf("env typing debounce not applied: %v", cfg.TypingDebounce)
	}
}

func TestNormalizeRepairsInvalidValues(t *testing.T) {
	cfg := Normalize(Config{HistoryPageSize: -1, EmitRatePerSec: -5})
	if cfg.HistoryPageSize != DefaultConfig().HistoryPageSize {
		t.Fatalf("history page size not repaired: %d", cfg.HistoryPageSize)
	}
	if cfg.EmitRatePerSec != DefaultConfig().EmitRatePerSec {
		t.Fatalf("emit rate not repaired: %v", cfg.EmitRatePerSec)
	}
}
