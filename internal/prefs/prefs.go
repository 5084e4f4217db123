// Package prefs handles shelf user preferences persistence.
// Preferences are stored in ~/.config/shelf/prefs.toml.
package prefs

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for shelf.
type Prefs struct {
	Theme string `toml:"theme"`
}

const (
	defaultPrefsPath = "~/.config/shelf/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used when nothing is saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from the given path. Missing, unreadable or
// malformed files yield the defaults.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default()
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Default()
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Default()
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Default()
	}
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return errors.Wrap(err, "resolve path")
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return errors.Wrap(err, "create prefs dir")
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshal prefs")
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return errors.Wrap(err, "write prefs")
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
