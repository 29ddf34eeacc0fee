// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/aibor/emulaunch/internal/exitcode"
	"github.com/aibor/emulaunch/internal/netres"
	"github.com/aibor/emulaunch/internal/pram"
	"github.com/aibor/emulaunch/internal/storage"
)

// NetworkManager acquires the network resource of a session.
type NetworkManager interface {
	Acquire(ctx context.Context, spec netres.Spec) (netres.Resource, error)
}

// Session runs emulator sessions.
//
// Nil fields fall back to the host: the OS file system, a [netres.Manager]
// operating on the host network stack and the standard streams of the current
// process.
type Session struct {
	Fs      afero.Fs
	Network NetworkManager

	// Emulator overrides the emulator executable of the architecture.
	Emulator string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// GracePeriod the emulator has to exit on interrupt before it is killed.
	GracePeriod time.Duration

	Logger *slog.Logger
}

func (s *Session) fs() afero.Fs {
	if s.Fs != nil {
		return s.Fs
	}

	return afero.NewOsFs()
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}

	return slog.Default()
}

func (s *Session) network() NetworkManager {
	if s.Network != nil {
		return s.Network
	}

	return &netres.Manager{Logger: s.logger()}
}

func (s *Session) stdin() io.Reader {
	if s.Stdin != nil {
		return s.Stdin
	}

	return os.Stdin
}

func (s *Session) stderr() io.Writer {
	if s.Stderr != nil {
		return s.Stderr
	}

	return os.Stderr
}

// Run runs a session for the configuration unit at path.
//
// Disk images and the parameter block are created if missing and kept after
// the session. The network resource is acquired right before the emulator is
// started and released after it exited, on every path including errors and
// context cancellation.
//
// If the emulator exits with a non-zero code, an [exitcode.Error] is
// returned.
func (s *Session) Run(ctx context.Context, path string, opts Options) (err error) {
	plan, err := s.Prepare(path, opts)
	if err != nil {
		return err
	}

	logger := s.logger().With(
		slog.String("config", plan.Record.Name),
		slog.String("arch", plan.Record.Arch.String()),
	)

	if plan.Medium.Label != "" {
		logger.Info("Attaching removable medium",
			slog.String("path", plan.Medium.Path),
			slog.String("label", plan.Medium.Label))
	}

	err = storage.New(s.fs(), logger).Ensure(plan.Record, opts.Extras)
	if err != nil {
		return err
	}

	if plan.Record.Arch.HasParameterBlock() {
		err = pram.Patch(s.fs(), plan.Record.ParameterBlockPath, plan.BootBusID)
		if err != nil {
			return err
		}

		logger.Debug("Encoded boot device",
			slog.String("target", opts.Boot.String()),
			slog.Int("bus_id", plan.BootBusID))
	}

	res, err := s.network().Acquire(ctx, plan.Network)
	if err != nil {
		return err
	}

	defer func() {
		releaseErr := res.Release()
		if releaseErr == nil {
			logger.Debug("Released network resource",
				slog.String("mode", res.Mode().String()))

			return
		}

		logger.Error("Failed to release network resource",
			slog.Any("error", releaseErr))

		if err == nil {
			err = releaseErr
		}
	}()

	cmd, err := s.command(plan, res.Endpoint())
	if err != nil {
		return err
	}

	if opts.Debug {
		err = s.pause(ctx, plan, cmd)
		if err != nil {
			return err
		}
	}

	logger.Info("Launching emulator", slog.String("command", cmd.String()))

	code, err := cmd.Run(ctx)
	if err != nil {
		return err
	}

	logger.Debug("Emulator exited", slog.Int("code", code))

	if exitcode.IsReserved(code) {
		logger.Info("Emulator exit code is in the range used for launcher failures",
			slog.Int("code", code))
	}

	if code != 0 {
		return exitcode.Error(code)
	}

	return nil
}
