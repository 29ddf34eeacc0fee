// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command emulaunch launches classic Macintosh machines in QEMU.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aibor/emulaunch/internal/cmd"
)

func main() {
	// Interrupts cancel the session. Its network resource is released before
	// exit.
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	rc := cmd.Run(ctx, os.Args[1:], cmd.IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	cancel()
	os.Exit(rc)
}
