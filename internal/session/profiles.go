package session

import (
	"strings"

	"github.com/jbweber/kiln/internal/config"
)

// SaveProfile stores the current configuration under name.
func (s *Session) SaveProfile(name string) (Result, error) {
	var res Result
	name = strings.TrimSpace(name)
	if name == "" {
		return res, config.Validation("profile name", "name is required")
	}
	if err := s.deps.Profiles.Save(name, s.cfg); err != nil {
		return res, err
	}
	res.info("Profile %q saved", name)
	return res, nil
}

// LoadProfile replaces the current configuration with the one stored under
// name. The current configuration is untouched on failure.
func (s *Session) LoadProfile(name string) (Result, error) {
	var res Result
	cfg, err := s.deps.Profiles.Load(strings.TrimSpace(name))
	if err != nil {
		return res, err
	}
	s.cfg = cfg
	s.candidates = nil
	res.info("Profile %q loaded", name)
	return res, nil
}

// ListProfiles returns the saved profile names.
func (s *Session) ListProfiles() ([]string, error) {
	return s.deps.Profiles.List()
}
