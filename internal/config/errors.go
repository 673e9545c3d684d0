package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports an empty or malformed required value.
// The operation that returned it made no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PreconditionError reports an operation attempted without the state it needs
// (no disk selected, no snapshots, index out of range, no saved profiles).
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Op == "" {
		return e.Reason
	}
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
}

// UnsupportedOperationError reports an operation the target cannot support,
// such as snapshots on an image that is not qcow2.
type UnsupportedOperationError struct {
	Op     string
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s not supported: %s", e.Op, e.Reason)
}

// ExternalToolFailure reports a failed external primitive (qemu-img, lsusb, exec).
type ExternalToolFailure struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ExternalToolFailure) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Tool, strings.Join(e.Args, " "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\nOutput: " + out
	}
	return msg
}

func (e *ExternalToolFailure) Unwrap() error {
	return e.Err
}

// MissingResourceWarning reports an absent host resource. It is never fatal:
// callers degrade and continue.
type MissingResourceWarning struct {
	Resource string
	Path     string
	Fallback string
}

func (e *MissingResourceWarning) Error() string {
	msg := fmt.Sprintf("%s not found at %s", e.Resource, e.Path)
	if e.Fallback != "" {
		msg += ", " + e.Fallback
	}
	return msg
}

// Validation builds a ValidationError.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Precondition builds a PreconditionError.
func Precondition(op, format string, args ...any) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsPrecondition reports whether err is or wraps a PreconditionError.
func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}

// IsUnsupported reports whether err is or wraps an UnsupportedOperationError.
func IsUnsupported(err error) bool {
	var target *UnsupportedOperationError
	return errors.As(err, &target)
}

// IsExternalTool reports whether err is or wraps an ExternalToolFailure.
func IsExternalTool(err error) bool {
	var target *ExternalToolFailure
	return errors.As(err, &target)
}

// IsMissingResource reports whether err is or wraps a MissingResourceWarning.
func IsMissingResource(err error) bool {
	var target *MissingResourceWarning
	return errors.As(err, &target)
}
