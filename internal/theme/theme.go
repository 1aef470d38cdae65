// Package theme persists the light/dark display preference, the only
// state labsite keeps between runs.
package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Theme is a display theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is used until a preference is saved.
const Default = Light

// ErrUnknownTheme is returned for values other than light and dark.
var ErrUnknownTheme = errors.New("unknown theme")

// Parse accepts "light" or "dark" in any case.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("%w: %q (want light or dark)", ErrUnknownTheme, s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// DefaultPath returns ~/.labsite/preferences.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".labsite", "preferences.yaml")
	}
	return filepath.Join(home, ".labsite", "preferences.yaml")
}

type preferences struct {
	Theme Theme `yaml:"theme"`
}

// Store reads and writes the preference file.
type Store struct {
	mu   sync.Mutex
	path string
	lock *fileLock
}

// NewStore returns a store for path. An empty path means DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path, lock: newFileLock(path)}
}

// Path returns the preference file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the saved theme, or Default when nothing usable is saved.
func (s *Store) Get() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Set saves t.
func (s *Store) Set(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	return s.update(func(Theme) Theme { return t })
}

// Toggle flips the saved theme and returns the new value.
func (s *Store) Toggle() (Theme, error) {
	var next Theme
	err := s.update(func(cur Theme) Theme {
		next = cur.Toggle()
		return next
	})
	return next, err
}

func (s *Store) update(fn func(Theme) Theme) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.lock(); err != nil {
		return err
	}
	defer func() {
		if uerr := s.lock.unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	cur, err := s.read()
	if err != nil {
		return err
	}
	next := fn(cur)
	if err := s.write(next); err != nil {
		return err
	}
	slog.Debug("theme_saved", slog.String("theme", string(next)), slog.String("path", s.path))
	return nil
}

func (s *Store) read() (Theme, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default, nil
	}
	if err != nil {
		return Default, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		slog.Warn("preferences_invalid", slog.String("path", s.path), slog.String("error", err.Error()))
		return Default, nil
	}
	t, err := Parse(string(p.Theme))
	if err != nil {
		return Default, nil
	}
	return t, nil
}

// write replaces the file atomically.
func (s *Store) write(t Theme) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := yaml.Marshal(preferences{Theme: t})
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
