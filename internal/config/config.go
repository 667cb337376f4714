package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultServerURL    = "http://localhost:7777"
	DefaultPageSize     = 10
	DefaultDebounceMs   = 500
	DefaultLowWatermark = 2
)

// Config represents the global ~/.bookconnect/config.toml.
type Config struct {
	// ServerURL is the base URL of the BookConnect REST API.
	ServerURL string `toml:"server_url"`
	// SocketURL is the WebSocket endpoint for the chat push channel.
	// When empty it is derived from ServerURL (http→ws) plus "/ws".
	SocketURL string `toml:"socket_url"`
	// PageSize is the feed page size requested from the server.
	PageSize int `toml:"page_size"`
	// DebounceMs is the quiet interval for text filter commits.
	DebounceMs int `toml:"debounce_ms"`
	// LowWatermark is the feed length at or below which the next page is
	// fetched automatically.
	LowWatermark int `toml:"low_watermark"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		ServerURL:    DefaultServerURL,
		PageSize:     DefaultPageSize,
		DebounceMs:   DefaultDebounceMs,
		LowWatermark: DefaultLowWatermark,
	}
}

// Load reads config from the given path and fills in defaults for missing
// fields. Returns an error if the file is missing or malformed.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault reads config from path, falling back to defaults if the
// file does not exist yet.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.DebounceMs <= 0 {
		c.DebounceMs = DefaultDebounceMs
	}
	if c.LowWatermark <= 0 {
		c.LowWatermark = DefaultLowWatermark
	}
}

// ResolveSocketURL returns the explicit socket URL, or one derived from
// ServerURL with the scheme switched to ws/wss and "/ws" appended.
func (c *Config) ResolveSocketURL() string {
	if c.SocketURL != "" {
		return c.SocketURL
	}
	u := c.ServerURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return strings.TrimRight(u, "/") + "/ws"
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
