// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu composes and runs QEMU system emulation commands for classic
// Macintosh machines. It expects the required QEMU binary to be present on
// the system.
//
// [Build] turns a [CommandSpec] into a [Command] without side effects, so the
// same spec always results in the same argument vector. [Command.Run] starts
// the emulator with the caller's standard streams and waits for it to exit.
package qemu
