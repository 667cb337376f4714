package session

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.bookconnect.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bookconnect")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// CookiePath returns the persisted session cookie jar path.
func CookiePath() string {
	return filepath.Join(BaseDir(), "cookies.json")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the client log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "bookconnect.log")
}

// EnsureDirs creates the state directory tree with owner-only permissions.
func EnsureDirs() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
