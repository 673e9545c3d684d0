package qemu

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// HostProbe answers the host capability questions the compiler asks.
type HostProbe interface {
	// KVMSupported reports whether the CPU advertises hardware virtualization
	KVMSupported() bool

	// FileExists reports whether path exists and is readable
	FileExists(path string) bool
}

// SystemProbe inspects the running host.
type SystemProbe struct {
	CPUInfoPath string
}

// NewSystemProbe returns a probe reading /proc/cpuinfo.
func NewSystemProbe() *SystemProbe {
	return &SystemProbe{CPUInfoPath: "/proc/cpuinfo"}
}

// KVMSupported looks for the vmx (Intel VT-x) or svm (AMD-V) CPU flag.
func (p *SystemProbe) KVMSupported() bool {
	f, err := os.Open(p.CPUInfoPath)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "flags") {
			continue
		}
		_, flags, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		for _, flag := range strings.Fields(flags) {
			if flag == "vmx" || flag == "svm" {
				return true
			}
		}
	}
	return false
}

// FileExists checks read access with access(2).
func (p *SystemProbe) FileExists(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}
