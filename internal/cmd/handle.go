// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"log/slog"

	"github.com/aibor/emulaunch/internal/config"
	"github.com/aibor/emulaunch/internal/exitcode"
	"github.com/aibor/emulaunch/internal/netres"
	"github.com/aibor/emulaunch/internal/pram"
	"github.com/aibor/emulaunch/internal/qemu"
	"github.com/aibor/emulaunch/internal/storage"
)

// exitCodeFor returns the exit code for the given error.
//
// The exit code of the emulator is passed through. Everything else is mapped
// into the reserved range.
func exitCodeFor(err error) int {
	if code, ok := exitcode.From(err); ok || err == nil {
		return code
	}

	switch {
	case errors.Is(err, &ParseArgsError{}),
		errors.Is(err, &qemu.ArgumentError{}):
		return exitcode.Usage
	case errors.Is(err, &config.SchemaError{}),
		errors.Is(err, &config.ParseError{}):
		return exitcode.Schema
	case errors.Is(err, &config.ResourceNotFoundError{}):
		return exitcode.ResourceNotFound
	case errors.Is(err, &storage.ProvisionError{}):
		return exitcode.Provision
	case errors.Is(err, &pram.CodecError{}):
		return exitcode.Codec
	case errors.Is(err, &netres.SetupError{}),
		errors.Is(err, &netres.ReleaseError{}):
		return exitcode.Network
	case errors.Is(err, &qemu.LaunchError{}):
		return exitcode.Launch
	default:
		return exitcode.Other
	}
}

// handleRunError logs the error and returns the exit code for it.
func handleRunError(err error, logger *slog.Logger) int {
	code := exitCodeFor(err)

	// A non-zero exit code of the emulator is not a failure of ours. The
	// emulator reported on its own already.
	if errors.Is(err, exitcode.Error(0)) {
		logger.Debug(err.Error())
		return code
	}

	if err != nil {
		logger.Error(err.Error())
	}

	return code
}
