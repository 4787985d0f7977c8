// Package xdg resolves where automize keeps its files, following the XDG
// Base Directory layout.
package xdg

import (
	"os"
	"path/filepath"
)

const app = "automize"

// File names inside the app directories.
const (
	settingsFile = "config.toml"
	libraryFile  = "library.db"
)

// Dirs holds the app-scoped directories.
type Dirs struct {
	Config string // settings and the session token
	Data   string // the saved-configuration library
	Cache  string // disposable data such as completion results
}

// Resolve reads XDG_CONFIG_HOME, XDG_DATA_HOME and XDG_CACHE_HOME, falling
// back to ~/.config, ~/.local/share and ~/.cache. Relative values are
// ignored.
func Resolve() Dirs {
	return Dirs{
		Config: filepath.Join(base("XDG_CONFIG_HOME", ".config"), app),
		Data:   filepath.Join(base("XDG_DATA_HOME", ".local", "share"), app),
		Cache:  filepath.Join(base("XDG_CACHE_HOME", ".cache"), app),
	}
}

func base(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" && filepath.IsAbs(dir) {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigDir returns the automize config directory.
func ConfigDir() string { return Resolve().Config }

// DataDir returns the automize data directory.
func DataDir() string { return Resolve().Data }

// CacheDir returns the automize cache directory.
func CacheDir() string { return Resolve().Cache }

// SettingsPath returns the default settings file.
func SettingsPath() string { return filepath.Join(ConfigDir(), settingsFile) }

// LibraryPath returns the default saved-configuration database.
func LibraryPath() string { return filepath.Join(DataDir(), libraryFile) }
