package adapter

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/cockroachdb/errors"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// ProcessRunner abstracts spawning external commands (colcon, the shell, ros2).
// Both methods block until the child exits.
type ProcessRunner interface {
	// Run executes the command and returns its captured output. A missing
	// executable or a non-zero exit yields a *model.ProcessExecutionError.
	Run(ctx context.Context, command m.Command) (m.CommandResult, error)

	// Stream executes the command, copying its output as it is produced.
	Stream(ctx context.Context, command m.Command, stdout, stderr io.Writer) error
}

// LocalProcessRunner provides a concrete implementation using os/exec.
type LocalProcessRunner struct{}

// NewLocalProcessRunner constructs a LocalProcessRunner.
func NewLocalProcessRunner() *LocalProcessRunner {
	return &LocalProcessRunner{}
}

// Run executes command and captures stdout and stderr separately.
func (r *LocalProcessRunner) Run(ctx context.Context, command m.Command) (m.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := m.CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
	}

	if err != nil {
		return result, &m.ProcessExecutionError{
			Command:  command.Argv(),
			Dir:      command.Dir,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}

	return result, nil
}

// Stream executes command with its output attached to the given writers.
func (r *LocalProcessRunner) Stream(ctx context.Context, command m.Command, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return &m.ProcessExecutionError{
			Command:  command.Argv(),
			Dir:      command.Dir,
			ExitCode: exitCode(err),
			Err:      err,
		}
	}

	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	// not started: missing executable, bad working directory
	return -1
}
