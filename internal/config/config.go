// Package config loads and normalises admin console configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	defaultAddr          = "127.0.0.1"
	defaultPort          = ":8890"
	defaultTimeout       = 30
	defaultRPS           = 5
	defaultBurst         = 10
	defaultMaxSessions   = 256
	defaultMaxImageBytes = 10 << 20
	defaultLogsDir       = "data/logs"
	defaultLogLevel      = "info"
	placeholderPrefix    = "YOUR_"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	Port string `json:"port"`
}

// Listen joins Addr and Port into a listen address.
func (s ServerConfig) Listen() string {
	addr := strings.TrimSpace(s.Addr)
	port := strings.TrimSpace(s.Port)
	if port != "" && !strings.HasPrefix(port, ":") {
		return addr + ":" + port
	}
	return addr + port
}

// APIConfig configures the Aguli backend client.
type APIConfig struct {
	BaseURL           string  `json:"base_url"`
	Key               string  `json:"key"`
	Token             string  `json:"token"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

// ComposeConfig bounds the compose sessions kept in memory.
type ComposeConfig struct {
	MaxSessions   int   `json:"max_sessions"`
	MaxImageBytes int64 `json:"max_image_bytes"`
}

// LogsConfig places and filters the console log.
type LogsConfig struct {
	Dir   string `json:"dir"`
	Level string `json:"level"`
}

// Config represents the combined runtime settings parsed from config.json.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Compose ComposeConfig
	Logs    LogsConfig
}

type fileConfig struct {
	Server  *ServerConfig  `json:"server"`
	API     *APIConfig     `json:"api"`
	Compose *ComposeConfig `json:"compose"`
	Logs    *LogsConfig    `json:"logs"`
}

// Load reads the JSON config at the given path and returns the parsed
// structure with defaults and environment fallbacks applied. Call Validate
// once command-line overrides are in place.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalise(raw), nil
}

// LoadOrDefault behaves like Load but falls back to DefaultConfig when the
// file does not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// DefaultConfig returns the defaults with environment fallbacks applied.
func DefaultConfig() Config {
	return normalise(fileConfig{})
}

// Validate reports settings the console cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("config: api.base_url is required (or set AGULI_API_URL)")
	}
	return nil
}

func normalise(raw fileConfig) Config {
	var cfg Config

	if raw.Server != nil {
		cfg.Server = *raw.Server
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = defaultAddr
	}
	if strings.TrimSpace(cfg.Server.Port) == "" {
		cfg.Server.Port = defaultPort
	}

	if raw.API != nil {
		cfg.API = *raw.API
	}
	if unset(cfg.API.BaseURL) {
		cfg.API.BaseURL = envValue("AGULI_API_URL", "NEXT_PUBLIC_API_URL")
	}
	if unset(cfg.API.Key) {
		cfg.API.Key = envValue("AGULI_API_KEY")
	}
	if unset(cfg.API.Token) {
		cfg.API.Token = envValue("AGULI_API_TOKEN")
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = defaultTimeout
	}
	if cfg.API.RequestsPerSecond == 0 {
		cfg.API.RequestsPerSecond = defaultRPS
	}
	if cfg.API.Burst <= 0 {
		cfg.API.Burst = defaultBurst
	}

	if raw.Compose != nil {
		cfg.Compose = *raw.Compose
	}
	if cfg.Compose.MaxSessions <= 0 {
		cfg.Compose.MaxSessions = defaultMaxSessions
	}
	if cfg.Compose.MaxImageBytes <= 0 {
		cfg.Compose.MaxImageBytes = defaultMaxImageBytes
	}

	if raw.Logs != nil {
		cfg.Logs = *raw.Logs
	}
	if strings.TrimSpace(cfg.Logs.Dir) == "" {
		cfg.Logs.Dir = defaultLogsDir
	}
	if strings.TrimSpace(cfg.Logs.Level) == "" {
		cfg.Logs.Level = defaultLogLevel
	}
	return cfg
}

// unset treats blanks and template placeholders such as YOUR_API_KEY_HERE as
// missing so the environment can supply the value.
func unset(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.HasPrefix(value, placeholderPrefix)
}

func envValue(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}
