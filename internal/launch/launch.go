// SPDX-License-Identifier: MPL-2.0

// Package launch starts the game after a conversion. The command line is
// interpreted by an embedded POSIX shell, so the same configuration works on
// every platform.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrEmptyCommand is returned when no command line is configured.
	ErrEmptyCommand = errors.New("empty play command")
	// ErrInvalidCommand is returned when the command line does not parse.
	ErrInvalidCommand = errors.New("invalid play command")
)

type (
	// Launcher runs Command in Dir.
	Launcher struct {
		// Dir is the working directory, normally the project directory.
		Dir string
		// Command is a shell command line such as "Game.exe test".
		Command string
		// Env is the process environment; nil inherits os.Environ().
		Env []string
		// Stdout and Stderr receive the command output; nil discards it.
		Stdout io.Writer
		Stderr io.Writer
		// Logger receives debug output. Optional.
		Logger *log.Logger
	}

	// ExitError reports a command that ran and exited non-zero.
	ExitError struct {
		Command string
		Code    int
	}

	// InvalidCommandError wraps ErrInvalidCommand with the parser error.
	InvalidCommandError struct {
		Command string
		Err     error
	}
)

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exited with status %d", e.Command, e.Code)
}

// Error implements the error interface for InvalidCommandError.
func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid play command %q: %v", e.Command, e.Err)
}

// Unwrap returns ErrInvalidCommand and the parser error.
func (e *InvalidCommandError) Unwrap() []error { return []error{ErrInvalidCommand, e.Err} }

// Validate checks that the command line parses.
func (l *Launcher) Validate() error {
	_, err := l.parse()
	return err
}

func (l *Launcher) parse() (*syntax.File, error) {
	if strings.TrimSpace(l.Command) == "" {
		return nil, ErrEmptyCommand
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(l.Command), "play")
	if err != nil {
		return nil, &InvalidCommandError{Command: l.Command, Err: err}
	}
	return prog, nil
}

// Run executes the command and waits for it to finish.
func (l *Launcher) Run(ctx context.Context) error {
	prog, err := l.parse()
	if err != nil {
		return err
	}

	env := l.Env
	if env == nil {
		env = os.Environ()
	}
	stdout, stderr := l.Stdout, l.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	runner, err := interp.New(
		interp.Dir(l.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
		interp.ExecHandlers(l.execHandler),
	)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if l.Logger != nil {
		l.Logger.Debug("launching", "command", l.Command, "dir", l.Dir)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &ExitError{Command: l.Command, Code: int(exitStatus)}
		}
		return fmt.Errorf("run %q: %w", l.Command, err)
	}
	return nil
}

// execHandler resolves bare program names against the project directory
// first, so "Game.exe" starts the project's game and not one on PATH.
func (l *Launcher) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) > 0 && !strings.ContainsAny(args[0], `/\`) {
			local := filepath.Join(l.Dir, args[0])
			if info, err := os.Stat(local); err == nil && !info.IsDir() {
				args = append([]string{local}, args[1:]...)
			}
		}
		return next(ctx, args)
	}
}
