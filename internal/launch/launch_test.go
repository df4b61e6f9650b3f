// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLauncher_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		wantErr error
	}{
		{"Game.exe", nil},
		{"Game.exe test", nil},
		{`wine "Game.exe" test`, nil},
		{"", ErrEmptyCommand},
		{"   ", ErrEmptyCommand},
		{"Game.exe 'test", ErrInvalidCommand},
		{"Game.exe &&", ErrInvalidCommand},
	}

	for _, tt := range tests {
		err := (&Launcher{Command: tt.command}).Validate()
		if tt.wantErr == nil && err != nil {
			t.Errorf("Validate(%q) error = %v", tt.command, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("Validate(%q) error = %v, want %v", tt.command, err, tt.wantErr)
		}
	}
}

func TestLauncher_Run(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	l := &Launcher{Dir: t.TempDir(), Command: "echo started $MODE", Env: []string{"MODE=test"}, Stdout: &out}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.String(); got != "started test\n" {
		t.Errorf("stdout = %q, want %q", got, "started test\n")
	}
}

func TestLauncher_Run_WorkingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var out bytes.Buffer
	l := &Launcher{Dir: dir, Command: "pwd", Env: []string{}, Stdout: &out}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestLauncher_Run_ExitStatus(t *testing.T) {
	t.Parallel()

	l := &Launcher{Dir: t.TempDir(), Command: "exit 3", Env: []string{}}
	err := l.Run(context.Background())
	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if ee.Code != 3 {
		t.Errorf("Code = %d, want 3", ee.Code)
	}
}

func TestLauncher_Run_InvalidCommand(t *testing.T) {
	t.Parallel()

	err := (&Launcher{Dir: t.TempDir(), Command: "echo 'open"}).Run(context.Background())
	if !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("Run() error = %v, want ErrInvalidCommand", err)
	}
}

func TestLauncher_Run_ProjectExecutable(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("shell script executables are not supported on Windows")
	}

	dir := t.TempDir()
	game := filepath.Join(dir, "Game.exe")
	if err := os.WriteFile(game, []byte("#!/bin/sh\necho \"game $1\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	l := &Launcher{Dir: dir, Command: "Game.exe test", Env: []string{"PATH=/usr/bin:/bin"}, Stdout: &out}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.String(); got != "game test\n" {
		t.Errorf("stdout = %q, want %q", got, "game test\n")
	}
}

func TestLauncher_Run_MissingExecutable(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	l := &Launcher{Dir: t.TempDir(), Command: "Game.exe", Env: []string{"PATH="}, Stderr: &stderr}
	err := l.Run(context.Background())
	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != 127 {
		t.Errorf("Run() error = %v, want exit status 127", err)
	}
}
