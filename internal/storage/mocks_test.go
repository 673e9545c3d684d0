package storage

import (
	"context"
	"errors"
	"strings"
)

// runCall records one invocation seen by fakeRunner.
type runCall struct {
	name string
	args []string
}

// fakeRunner answers qemu-img invocations from canned outputs keyed by the
// first argument (the qemu-img subcommand).
type fakeRunner struct {
	calls   []runCall
	outputs map[string]string
	errs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, runCall{name: name, args: append([]string(nil), args...)})
	if len(args) == 0 {
		return nil, errors.New("no arguments")
	}
	key := args[0]
	return []byte(f.outputs[key]), f.errs[key]
}

func (f *fakeRunner) lastArgs() string {
	if len(f.calls) == 0 {
		return ""
	}
	return strings.Join(f.calls[len(f.calls)-1].args, " ")
}
