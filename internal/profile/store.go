// Package profile persists named VM configurations in a single JSON file
// mapping profile name to record.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
)

const (
	// FileName is the profiles file inside the kiln config directory.
	FileName = "profiles.json"

	// DirPermissions are the permissions for the config directory.
	DirPermissions = 0755

	// FilePermissions are the permissions for the profiles file.
	FilePermissions = 0644
)

// DefaultPath returns $XDG_CONFIG_HOME/kiln/profiles.json (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "kiln", FileName), nil
}

// Store reads and writes the profiles file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a store backed by path. The file need not exist.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.Ensure(logger).With("component", "profiles"),
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Save writes cfg under name, replacing any existing entry and creating
// the file and its directory when absent.
func (s *Store) Save(name string, cfg *config.VMConfig) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return config.Validation("profile name", "name is required")
	}
	return s.Put(name, FromConfig(cfg))
}

// Put writes a record under name.
func (s *Store) Put(name string, r Record) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return config.Validation("profile name", "name is required")
	}
	records, err := s.Records()
	if err != nil {
		return err
	}
	records[name] = r
	if err := s.write(records); err != nil {
		return err
	}
	s.logger.Info("saved profile", "name", name, "path", s.path)
	return nil
}

// Load returns the configuration stored under name.
func (s *Store) Load(name string) (*config.VMConfig, error) {
	r, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	cfg, err := r.ToConfig()
	if err != nil {
		return nil, fmt.Errorf("profile %q is invalid: %w", name, err)
	}
	s.logger.Debug("loaded profile", "name", name)
	return cfg, nil
}

// Get returns the raw record stored under name.
func (s *Store) Get(name string) (*Record, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, config.Precondition("load profile", "no saved profiles")
	}
	r, ok := records[name]
	if !ok {
		return nil, config.Precondition("load profile", "profile %q not found", name)
	}
	return &r, nil
}

// List returns the saved profile names in sorted order.
func (s *Store) List() ([]string, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the entry for name.
func (s *Store) Delete(name string) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	if _, ok := records[name]; !ok {
		return config.Precondition("delete profile", "profile %q not found", name)
	}
	delete(records, name)
	if err := s.write(records); err != nil {
		return err
	}
	s.logger.Info("deleted profile", "name", name)
	return nil
}

// Records returns every stored record. A missing file yields an empty map.
func (s *Store) Records() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]Record), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file %s: %w", s.path, err)
	}

	records := make(map[string]Record)
	if len(strings.TrimSpace(string(data))) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file %s: %w", s.path, err)
	}
	return records, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *Store) write(records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := tmp.Chmod(FilePermissions); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
