package session

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
	"github.com/jbweber/kiln/internal/qemu"
)

// Result is what a handler reports back to the operator.
type Result struct {
	Messages []string
	Warnings []string
}

func (r *Result) info(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) warnErr(err error) {
	r.Warnings = append(r.Warnings, err.Error())
}

// Deps wires a session to its collaborators.
type Deps struct {
	Images    imageTool
	Media     mediaInspector
	Snapshots snapshotManager
	Devices   usbEnumerator
	Resolver  usbResolver
	Compiler  invocationCompiler
	Probe     qemu.HostProbe
	Profiles  profileStore
	Links     linkInspector
	Launcher  launcher

	// LookPath resolves binaries for SetBinary. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// Session is one interactive editing session over a single configuration.
type Session struct {
	cfg  *config.VMConfig
	deps Deps

	// candidates is the most recent USB enumeration, indexed by SelectUSB.
	candidates []config.USBDevice

	logger *slog.Logger
}

// New starts a session with an empty configuration.
func New(deps Deps, logger *slog.Logger) *Session {
	if deps.LookPath == nil {
		deps.LookPath = exec.LookPath
	}
	return &Session{
		cfg:    config.New(),
		deps:   deps,
		logger: logging.Ensure(logger).With("component", "session"),
	}
}

// Config returns the configuration being edited.
func (s *Session) Config() *config.VMConfig {
	return s.cfg
}
