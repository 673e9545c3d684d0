package session

import (
	"strconv"
	"strings"

	"github.com/jbweber/kiln/internal/arch"
	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/qemu"
)

// SetISO attaches an installer image after checking it is ISO9660.
func (s *Session) SetISO(path string) (Result, error) {
	var res Result

	path = strings.TrimSpace(path)
	if path == "" {
		return res, config.Validation("iso", "no file selected")
	}
	iso, err := s.deps.Media.InspectISO(path)
	if err != nil {
		return res, err
	}

	s.cfg.ISOPath = path
	if iso.Label != "" {
		res.info("ISO: %s (label %s)", path, iso.Label)
	} else {
		res.info("ISO: %s", path)
	}
	return res, nil
}

// ClearISO detaches the installer image.
func (s *Session) ClearISO() Result {
	var res Result
	s.cfg.ISOPath = ""
	res.info("ISO cleared")
	return res
}

// SetRAM stores a memory size such as 4G or 512M.
func (s *Session) SetRAM(token string) (Result, error) {
	var res Result
	if err := s.cfg.SetRAM(token); err != nil {
		return res, err
	}
	res.info("RAM: %s", s.cfg.RAM)
	return res, nil
}

// SetCores stores the vCPU count.
func (s *Session) SetCores(value string) (Result, error) {
	var res Result
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return res, config.Validation("cores", "%q is not a number", value)
	}
	if err := s.cfg.SetCores(n); err != nil {
		return res, err
	}
	res.info("Cores: %d", n)
	return res, nil
}

// SetFirmware selects BIOS or UEFI. UEFI without the firmware image is
// accepted with a warning; the compiler boots BIOS in that case.
func (s *Session) SetFirmware(value string) (Result, error) {
	var res Result
	fw, err := config.ParseFirmware(value)
	if err != nil {
		return res, err
	}
	s.cfg.Firmware = fw
	res.info("Firmware: %s", fw)

	if fw == config.FirmwareUEFI && s.deps.Probe != nil && s.deps.Compiler != nil {
		if path := s.deps.Compiler.FirmwarePath(); !s.deps.Probe.FileExists(path) {
			res.warnErr(&config.MissingResourceWarning{
				Resource: "UEFI firmware",
				Path:     path,
				Fallback: "the VM will boot with BIOS",
			})
		}
	}
	return res, nil
}

// SetNetwork selects a network template. Tap mode checks that tap0 exists
// and is up.
func (s *Session) SetNetwork(value string) (Result, error) {
	var res Result
	mode, err := config.ParseNetworkMode(value)
	if err != nil {
		return res, err
	}
	s.cfg.Network = mode
	res.info("Network: %s", mode)

	if mode == config.NetworkTap && s.deps.Links != nil {
		status, err := s.deps.Links.Link(qemu.TapInterface)
		switch {
		case err != nil:
			res.warn("could not check %s: %v", qemu.TapInterface, err)
		case !status.Exists:
			res.warnErr(&config.MissingResourceWarning{
				Resource: "tap interface",
				Path:     qemu.TapInterface,
				Fallback: "create it with: ip tuntap add dev " + qemu.TapInterface + " mode tap",
			})
		case !status.Up:
			res.warn("%s exists but is down; bring it up with: ip link set %s up", qemu.TapInterface, qemu.TapInterface)
		}
	}
	return res, nil
}

// SetKVM records the acceleration preference. Enabling it on a host without
// virtualization extensions is allowed; the flag is simply not emitted.
func (s *Session) SetKVM(enabled bool) Result {
	var res Result
	s.cfg.KVM = enabled
	if !enabled {
		res.info("KVM: disabled")
		return res
	}
	res.info("KVM: enabled")
	if s.deps.Probe != nil && !s.deps.Probe.KVMSupported() {
		res.warn("this host does not report vmx or svm; the VM will run without acceleration")
	}
	return res
}

// SetArchitecture selects the emulator binary for a guest architecture.
func (s *Session) SetArchitecture(value string) (Result, error) {
	var res Result
	a, err := arch.Parse(value)
	if err != nil {
		return res, config.Validation("architecture", "%v", err)
	}
	return s.setBinary(a.Binary(), res)
}

// SetBinary names the emulator binary directly. A binary that is not on
// PATH is accepted with a warning.
func (s *Session) SetBinary(value string) (Result, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Result{}, config.Validation("binary", "name is required")
	}
	return s.setBinary(value, Result{})
}

func (s *Session) setBinary(binary string, res Result) (Result, error) {
	s.cfg.Binary = binary
	res.info("Binary: %s", binary)
	if a := arch.FromBinary(binary); a != "" && a != arch.Host() {
		res.info("Guest architecture %s differs from host %s; KVM acceleration will not apply", a, arch.Host())
	}
	if _, err := s.deps.LookPath(binary); err != nil {
		res.warn("%s not found on PATH", binary)
	}
	return res, nil
}
