package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUserInputCancelled is returned when the user dismisses a picker. Commands
// abort silently on it.
var ErrUserInputCancelled = errors.New("user input cancelled")

// ErrPackageSelectionConflict is returned when a per-package build is requested
// while the configured build arguments already select packages.
var ErrPackageSelectionConflict = errors.New("build arguments already select packages")

// ErrUnsupportedTaskType is returned by the resolver for definitions it does not own.
var ErrUnsupportedTaskType = errors.New("unsupported task type")

// ConfigurationError means no consistent configuration could be built. It is
// fatal to the operation that triggered it.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}

	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ProcessExecutionError is returned when an external command is missing or exits non-zero.
type ProcessExecutionError struct {
	Command  []string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ProcessExecutionError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "command %q failed", strings.Join(e.Command, " "))

	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " with exit code %d", e.ExitCode)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	if out := strings.TrimSpace(e.Stderr); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	} else if out := strings.TrimSpace(e.Stdout); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}

	return b.String()
}

func (e *ProcessExecutionError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsProcessExecutionError reports whether err carries a ProcessExecutionError.
func IsProcessExecutionError(err error) bool {
	var target *ProcessExecutionError
	return errors.As(err, &target)
}
