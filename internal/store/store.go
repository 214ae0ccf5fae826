// Package store persists the interval ledger as a flat JSON file with
// atomic whole-file replacement.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ozanyurt/tally/internal/ledger"
)

// EnvFile overrides the ledger location when set, taking precedence over
// the configured path but not over an explicit --file flag.
const EnvFile = "TALLY_FILE"

const defaultFileName = ".timelog.json"

type Store struct {
	path string
}

// New creates a store bound to path. An empty path falls back through the
// TALLY_FILE environment variable, then the configured path, then
// ~/.timelog.json.
func New(path, configured string) (*Store, error) {
	resolved, err := ResolvePath(path, configured)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Path returns the resolved ledger file location.
func (s *Store) Path() string {
	return s.path
}

// ResolvePath picks the ledger location: explicit flag, then the
// TALLY_FILE environment variable, then the configured path, then
// ~/.timelog.json. A leading "~/" expands to the home directory.
func ResolvePath(explicit, configured string) (string, error) {
	for _, p := range []string{explicit, os.Getenv(EnvFile), configured} {
		if p != "" {
			return expandHome(p)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultFileName), nil
}

func expandHome(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
	}
	return p, nil
}

// Load reads the ledger file. A missing file yields an empty ledger. A
// file that is not valid JSON is moved aside to <path>.bak and an empty
// ledger is returned, so a corrupt file never blocks the tool.
func (s *Store) Load() (*ledger.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ledger.Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var intervals []ledger.Interval
	if err := json.Unmarshal(data, &intervals); err != nil {
		backup := s.path + ".bak"
		slog.Warn("ledger file is corrupt, moving aside", "path", s.path, "backup", backup)
		if err := os.Rename(s.path, backup); err != nil {
			return nil, fmt.Errorf("back up corrupt ledger: %w", err)
		}
		return &ledger.Ledger{}, nil
	}
	return &ledger.Ledger{Intervals: intervals}, nil
}

// Save writes the ledger atomically: marshal to <path>.tmp, then rename
// into place. Readers never observe a partially written file.
func (s *Store) Save(l *ledger.Ledger) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	intervals := l.Intervals
	if intervals == nil {
		intervals = []ledger.Interval{}
	}
	data, err := json.MarshalIndent(intervals, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Clear removes the ledger file and any stray ./timelog.json left by
// older versions that wrote to the working directory. Missing files are
// not an error.
func (s *Store) Clear() error {
	for _, p := range []string{s.path, "timelog.json"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
