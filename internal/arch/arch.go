// Package arch maps guest architectures to the qemu-system binary that
// emulates them.
package arch

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Architecture is a guest CPU architecture.
type Architecture string

const (
	X86_64  Architecture = "x86_64"
	I686    Architecture = "i686"
	AArch64 Architecture = "aarch64"
	ARMV7L  Architecture = "armv7l"
	PPC64LE Architecture = "ppc64le"
	RISCV64 Architecture = "riscv64"
	S390X   Architecture = "s390x"
)

const binaryPrefix = "qemu-system-"

// qemuTarget is the suffix of the emulator binary for each architecture.
var qemuTarget = map[Architecture]string{
	X86_64:  "x86_64",
	I686:    "i386",
	AArch64: "aarch64",
	ARMV7L:  "arm",
	PPC64LE: "ppc64",
	RISCV64: "riscv64",
	S390X:   "s390x",
}

// Supported returns every architecture kiln can pick a binary for.
func Supported() []Architecture {
	return []Architecture{X86_64, I686, AArch64, ARMV7L, PPC64LE, RISCV64, S390X}
}

// IsValid reports whether a is supported.
func (a Architecture) IsValid() bool {
	_, ok := qemuTarget[a]
	return ok
}

func (a Architecture) String() string {
	return string(a)
}

// Binary returns the emulator binary name, e.g. qemu-system-aarch64.
func (a Architecture) Binary() string {
	target, ok := qemuTarget[a]
	if !ok {
		target = qemuTarget[X86_64]
	}
	return binaryPrefix + target
}

// Parse returns the canonical Architecture for value.
func Parse(value string) (Architecture, error) {
	if a := Normalize(value); a != "" {
		return a, nil
	}
	return "", fmt.Errorf("unsupported architecture %q (supported: %s)", value, strings.Join(supportedStrings(), ", "))
}

// Normalize maps common aliases (amd64, arm64, i386, ...) to an
// Architecture. It returns "" for unknown values.
func Normalize(value string) Architecture {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "x86_64", "x86-64", "amd64":
		return X86_64
	case "i686", "i386", "i586", "x86", "386":
		return I686
	case "aarch64", "arm64":
		return AArch64
	case "armv7l", "armv7", "arm", "armhf":
		return ARMV7L
	case "ppc64le", "ppc64", "ppc64el", "powerpc64le":
		return PPC64LE
	case "riscv64", "riscv":
		return RISCV64
	case "s390x":
		return S390X
	}
	return ""
}

// FromBinary returns the architecture emulated by a qemu-system binary name
// or path, or "" when the name is not a known emulator.
func FromBinary(binary string) Architecture {
	name := filepath.Base(strings.TrimSpace(binary))
	if !strings.HasPrefix(name, binaryPrefix) {
		return ""
	}
	target := strings.TrimPrefix(name, binaryPrefix)
	for a, t := range qemuTarget {
		if t == target {
			return a
		}
	}
	return ""
}

// Host returns the architecture of the running process, defaulting to
// x86_64 on unknown platforms.
func Host() Architecture {
	if a := Normalize(runtime.GOARCH); a != "" {
		return a
	}
	return X86_64
}

func supportedStrings() []string {
	out := make([]string, 0, len(qemuTarget))
	for _, a := range Supported() {
		out = append(out, a.String())
	}
	sort.Strings(out)
	return out
}
