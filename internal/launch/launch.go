// Package launch replaces the running session with the hypervisor process.
package launch

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"golang.org/x/sys/unix"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
)

// DefaultPrivilege is the command prefix used to gain root for device access.
const DefaultPrivilege = "sudo"

// Launcher execs an argument vector, optionally behind a privilege prefix.
type Launcher struct {
	prefix []string

	// Host hooks, replaced in tests.
	lookPath func(file string) (string, error)
	exec     func(argv0 string, argv []string, envv []string) error
	euid     func() int

	logger *slog.Logger
}

// New parses privilege (e.g. "sudo" or "doas -u root") into a prefix.
// An empty string disables the prefix.
func New(privilege string, logger *slog.Logger) (*Launcher, error) {
	prefix, err := shellwords.Parse(strings.TrimSpace(privilege))
	if err != nil {
		return nil, config.Validation("privilege command", "%v", err)
	}
	return &Launcher{
		prefix:   prefix,
		lookPath: exec.LookPath,
		exec:     unix.Exec,
		euid:     unix.Geteuid,
		logger:   logging.Ensure(logger).With("component", "launch"),
	}, nil
}

// Argv returns the full vector that Exec would run, privilege prefix
// included when the process is not already root.
func (l *Launcher) Argv(args []string) []string {
	if len(l.prefix) == 0 || l.euid() == 0 {
		return append([]string(nil), args...)
	}
	out := make([]string, 0, len(l.prefix)+len(args))
	out = append(out, l.prefix...)
	return append(out, args...)
}

// Exec replaces the current process with args. It only returns on failure.
func (l *Launcher) Exec(args []string) error {
	if len(args) == 0 {
		return config.Validation("command", "argument vector is empty")
	}
	argv := l.Argv(args)

	path, err := l.lookPath(argv[0])
	if err != nil {
		return &config.ExternalToolFailure{Tool: argv[0], Args: argv[1:], Err: err}
	}

	l.logger.Info("launching", "path", path, "args", len(argv)-1)
	if err := l.exec(path, argv, os.Environ()); err != nil {
		return &config.ExternalToolFailure{Tool: argv[0], Args: argv[1:], Err: fmt.Errorf("exec %s: %w", path, err)}
	}
	return nil
}
