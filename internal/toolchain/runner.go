// Package toolchain drives the external programs the scaffolder depends on:
// the template downloader, the package manager, git and node.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Command describes a single child process invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner defines the operations needed to drive external tools.
type Runner interface {
	LookPath(name string) error
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) (string, error)
}

// CommandRunner executes real binaries found on PATH.
type CommandRunner struct {
	Logger *zap.Logger
}

// NewRunner returns a runner backed by os/exec.
func NewRunner(logger *zap.Logger) *CommandRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandRunner{Logger: logger}
}

// LookPath verifies that name is discoverable on PATH.
func (r *CommandRunner) LookPath(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found: %w", name, err)
	}
	return nil
}

// Run executes cmd and waits for it. When cmd.Stderr is nil the tail of the
// child's stderr is folded into the returned error.
func (r *CommandRunner) Run(ctx context.Context, cmd Command) error {
	r.Logger.Debug("running command", zap.String("cmd", cmd.String()), zap.String("dir", cmd.Dir))

	// Name and arguments are assembled by this package from validated
	// options, never from a shell string.
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) // #nosec G204
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout

	var captured bytes.Buffer
	if cmd.Stderr != nil {
		c.Stderr = cmd.Stderr
	} else {
		c.Stderr = &captured
	}

	if err := c.Run(); err != nil {
		r.Logger.Debug("command failed", zap.String("cmd", cmd.String()), zap.Error(err))
		return commandError(cmd, err, captured.String())
	}
	return nil
}

// Output executes cmd and returns its trimmed stdout.
func (r *CommandRunner) Output(ctx context.Context, cmd Command) (string, error) {
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := r.Run(ctx, cmd); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func commandError(cmd Command, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return fmt.Errorf("%s: %w: %s", cmd, err, strings.Join(lines, "\n"))
}
