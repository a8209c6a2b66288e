// Package config loads client configuration from configs/config.yaml with
// ZAP_* environment overrides layered on top.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL      string
	SocketURL       string
	DialTimeout     time.Duration
	RequestTimeout  time.Duration
	TypingDebounce  time.Duration
	HistoryPageSize int
	EmitRatePerSec  float64
	EmitBurst       int
}

// FileConfig is the on-disk shape; durations are strings in
// time.ParseDuration syntax ("800ms", "10s").
type FileConfig struct {
	APIBaseURL      string  `yaml:"apiBaseUrl"`
	SocketURL       string  `yaml:"socketUrl"`
	DialTimeout     string  `yaml:"dialTimeout"`
	RequestTimeout  string  `yaml:"requestTimeout"`
	TypingDebounce  string  `yaml:"typingDebounce"`
	HistoryPageSize int     `yaml:"historyPageSize"`
	EmitRatePerSec  float64 `yaml:"emitRatePerSec"`
	EmitBurst       int     `yaml:"emitBurst"`
}

type fileRoot struct {
	Client FileConfig `yaml:"client"`
}

func DefaultConfig() Config {
	return Config{
		APIBaseURL:      "http://localhost:5001/api",
		SocketURL:       "ws://localhost:5001/socket",
		DialTimeout:     10 * time.Second,
		RequestTimeout:  15 * time.Second,
		TypingDebounce:  800 * time.Millisecond,
		HistoryPageSize: 50,
		EmitRatePerSec:  20,
		EmitBurst:       40,
	}
}

// LoadFromPath reads configPath if given, otherwise tries the conventional
// locations. A missing or unreadable file is not an error: defaults apply.
func LoadFromPath(configPath string) Config {
	cfg := DefaultConfig()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"go-client/configs/config.yaml",
			"configs/config.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed fileRoot
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		merged := cfg
		Merge(&merged, parsed.Client)
		ApplyEnvOverrides(&merged)
		return Normalize(merged)
	}

	ApplyEnvOverrides(&cfg)
	return Normalize(cfg)
}

func Merge(dst *Config, src FileConfig) {
	if src.APIBaseURL != "" {
		dst.APIBaseURL = src.APIBaseURL
	}
	if src.SocketURL != "" {
		dst.SocketURL = src.SocketURL
	}
	if d, ok := parseDuration(src.DialTimeout); ok {
		dst.DialTimeout = d
	}
	if d, ok := parseDuration(src.RequestTimeout); ok {
		dst.RequestTimeout = d
	}
	if d, ok := parseDuration(src.TypingDebounce); ok {
		dst.TypingDebounce = d
	}
	if src.HistoryPageSize != 0 {
		dst.HistoryPageSize = src.HistoryPageSize
	}
	if src.EmitRatePerSec != 0 {
		dst.EmitRatePerSec = src.EmitRatePerSec
	}
	if src.EmitBurst != 0 {
		dst.EmitBurst = src.EmitBurst
	}
}

func parseDuration(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ZAP_API_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ZAP_SOCKET_URL")); v != "" {
		cfg.SocketURL = v
	}
	if raw := strings.TrimSpace(os.Getenv("ZAP_TYPING_DEBOUNCE_MS")); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			cfg.TypingDebounce = time.Duration(ms) * time.Millisecond
		}
	}
	if raw := strings.TrimSpace(os.Getenv("ZAP_HISTORY_PAGE_SIZE")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.HistoryPageSize = n
		}
	}
}

func Normalize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = def.APIBaseURL
	}
	if cfg.SocketURL == "" {
		cfg.SocketURL = def.SocketURL
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = def.DialTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.TypingDebounce <= 0 {
		cfg.TypingDebounce = def.TypingDebounce
	}
	if cfg.HistoryPageSize <= 0 {
		cfg.HistoryPageSize = def.HistoryPageSize
	}
	if cfg.EmitRatePerSec <= 0 {
		cfg.EmitRatePerSec = def.EmitRatePerSec
	}
	if cfg.EmitBurst <= 0 {
		cfg.EmitBurst = def.EmitBurst
	}
	return cfg
}
