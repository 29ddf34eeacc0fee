// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/aibor/emulaunch/internal/pram"
	"github.com/aibor/emulaunch/internal/qemu"
)

// pause prints the parameter block and the command line and waits for the
// operator to confirm the launch.
func (s *Session) pause(ctx context.Context, plan *Plan, cmd *qemu.Command) error {
	w := s.stderr()

	if plan.Record.Arch.HasParameterBlock() {
		path := plan.Record.ParameterBlockPath

		data, err := afero.ReadFile(s.fs(), path)
		if err != nil {
			return &pram.CodecError{Path: path, Err: err}
		}

		fmt.Fprintf(w, "Parameter block %s (boot bus id %d):\n%s",
			path, plan.BootBusID, hex.Dump(data))
	}

	fmt.Fprintf(w, "Command:\n  %s\nPress Enter to launch ", cmd.String())

	return waitForLine(ctx, s.stdin())
}

// waitForLine returns once a line was read from r, r is exhausted or the
// context is done.
//
// The reader is consumed one byte at a time, so nothing following the line
// is taken away from the emulator, which reads the same stream.
func waitForLine(ctx context.Context, r io.Reader) error {
	done := make(chan error, 1)

	go func() {
		buf := make([]byte, 1)

		for {
			_, err := r.Read(buf)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}

				done <- err

				return
			}

			if buf[0] == '\n' {
				done <- nil
				return
			}
		}
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
