package session

import (
	"context"
	"strings"

	"github.com/jbweber/kiln/internal/qemu"
)

// Preview compiles the current configuration without consuming the pending
// snapshot marker. The result holds the command line as it would run,
// privilege prefix included.
func (s *Session) Preview() (Result, *qemu.Invocation) {
	var res Result

	inv := s.deps.Compiler.Preview(*s.cfg, s.usbArgs())
	for _, w := range inv.Warnings {
		res.warnErr(w)
	}
	res.info("%s", s.commandLine(inv))
	return res, inv
}

// Launch compiles the configuration, consuming the pending snapshot marker,
// and execs the hypervisor. On success the process is replaced and Launch
// does not return. On failure the session continues with the marker
// cleared.
func (s *Session) Launch(ctx context.Context) (Result, error) {
	var res Result

	if err := ctx.Err(); err != nil {
		return res, err
	}

	inv := s.deps.Compiler.Compile(s.cfg, s.usbArgs())
	for _, w := range inv.Warnings {
		res.warnErr(w)
		s.logger.Warn("launch warning", "err", w)
	}

	s.logger.Info("starting VM", "binary", inv.Binary(), "args", len(inv.Args)-1, "snapshot", inv.SnapshotApplied)
	if err := s.deps.Launcher.Exec(inv.Args); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Session) usbArgs() []string {
	if len(s.cfg.USB) == 0 {
		return nil
	}
	return s.deps.Resolver.Resolve(s.cfg.USB).Args
}

func (s *Session) commandLine(inv *qemu.Invocation) string {
	if s.deps.Launcher == nil {
		return inv.CommandLine()
	}
	argv := s.deps.Launcher.Argv(inv.Args)
	prefix := argv[:len(argv)-len(inv.Args)]
	if len(prefix) == 0 {
		return inv.CommandLine()
	}
	return strings.Join(prefix, " ") + " " + inv.CommandLine()
}
