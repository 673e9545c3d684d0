package session

import (
	"context"

	"github.com/jbweber/kiln/internal/config"
)

// USBCandidates enumerates host USB devices and remembers the list for
// SelectUSB.
func (s *Session) USBCandidates(ctx context.Context) ([]config.USBDevice, error) {
	devices, err := s.deps.Devices.Devices(ctx)
	if err != nil {
		return nil, err
	}
	s.candidates = devices
	return devices, nil
}

// SelectUSB replaces the passthrough selection with the candidates at
// indices, in the order given. No indices clears the selection.
func (s *Session) SelectUSB(indices []int) (Result, error) {
	var res Result

	if len(indices) == 0 {
		s.cfg.USB = nil
		res.info("USB passthrough cleared")
		return res, nil
	}
	if len(s.candidates) == 0 {
		return res, config.Precondition("select USB devices", "no USB devices listed")
	}

	selected := make([]config.USBDevice, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(s.candidates) {
			return res, config.Precondition("select USB devices", "index %d out of range (0-%d)", i, len(s.candidates)-1)
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		selected = append(selected, s.candidates[i])
	}

	s.cfg.USB = selected
	resolution := s.deps.Resolver.Resolve(selected)
	for _, att := range resolution.Attachments {
		res.info("%s", att)
	}
	res.info("USB: %s", resolution.Summary)
	return res, nil
}
