// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultGracePeriod is the time the emulator is given to exit after it was
// asked to terminate, before it is killed.
const DefaultGracePeriod = 5 * time.Second

// signalExitBase is added to the signal number for processes terminated by a
// signal, like shells do.
const signalExitBase = 128

// Command is a single QEMU command that can be run.
type Command struct {
	Executable string
	Args       []string

	// Standard streams of the emulator. If nil, the ones of the current
	// process are used.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// GracePeriod the emulator has to exit on context cancellation before
	// it is killed. Defaults to [DefaultGracePeriod].
	GracePeriod time.Duration
}

// Build creates a new [Command] from the given spec.
//
// It does not access the file system or any other external resource. The
// result only depends on the spec, so it can be rendered as dry run.
func Build(spec CommandSpec) (*Command, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, &ArgumentError{msg: "build", err: err}
	}

	return &Command{
		Executable: spec.executable(),
		Args:       args,
	}, nil
}

// String renders the command line in a form that can be pasted into a shell.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellQuote(c.Executable))

	for _, arg := range c.Args {
		parts = append(parts, shellQuote(arg))
	}

	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Run starts the emulator and waits for it to exit.
//
// The exit code of the emulator is returned as is. A non-zero exit code is
// not an error. If the emulator can not be started, a [LaunchError] is
// returned. On context cancellation the emulator is sent SIGTERM and killed if
// it did not exit within the grace period.
func (c *Command) Run(ctx context.Context) (int, error) {
	cmd := exec.CommandContext(ctx, c.Executable, c.Args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.Stdin, c.Stdout, c.Stderr

	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}

	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}

	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	cmd.Cancel = func() error {
		return cmd.Process.Signal(unix.SIGTERM)
	}

	cmd.WaitDelay = c.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}

	err := cmd.Start()
	if err != nil {
		return 0, &LaunchError{Executable: c.Executable, Err: err}
	}

	err = cmd.Wait()
	code := exitCode(cmd.ProcessState)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && ctx.Err() == nil {
		return code, &CommandError{Err: err}
	}

	return code, nil
}

func exitCode(state *os.ProcessState) int {
	if state == nil {
		return -1
	}

	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return signalExitBase + int(status.Signal())
	}

	return state.ExitCode()
}
