package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.ServerURL = "https://bookconnect.example.com"
	cfg.PageSize = 25
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.ServerURL != "https://bookconnect.example.com" {
		t.Errorf("ServerURL = %q", loaded.ServerURL)
	}
	if loaded.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", loaded.PageSize)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(path, []byte("server_url = \"http://api.local\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want default %d", cfg.PageSize, DefaultPageSize)
	}
	if cfg.DebounceMs != DefaultDebounceMs {
		t.Errorf("DebounceMs = %d, want default %d", cfg.DebounceMs, DefaultDebounceMs)
	}
	if cfg.LowWatermark != DefaultLowWatermark {
		t.Errorf("LowWatermark = %d, want default %d", cfg.LowWatermark, DefaultLowWatermark)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg := LoadOrDefault("/nonexistent/config.toml")
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
	}
}

func TestResolveSocketURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit", Config{ServerURL: "http://api.local", SocketURL: "ws://push.local/sock"}, "ws://push.local/sock"},
		{"derived http", Config{ServerURL: "http://api.local:7777"}, "ws://api.local:7777/ws"},
		{"derived https", Config{ServerURL: "https://bookconnect.example.com"}, "wss://bookconnect.example.com/ws"},
		{"trailing slash", Config{ServerURL: "http://api.local/"}, "ws://api.local/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveSocketURL(); got != tt.want {
				t.Errorf("ResolveSocketURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
