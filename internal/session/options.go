// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"github.com/aibor/emulaunch/internal/arch"
	"github.com/aibor/emulaunch/internal/netres"
)

// Options are per invocation settings that are not part of the
// configuration unit.
type Options struct {
	// Removable is the removable medium image, usually a CD-ROM image.
	Removable string

	// Extras are additional disk images. Missing ones are created.
	Extras []string

	// Boot selects the device to boot from.
	Boot arch.BootTarget

	// Display forces the emulator's display backend.
	Display string

	// Network overrides the configured network mode, if not empty.
	Network netres.Mode

	// Debug pauses before the emulator is launched, so the parameter block
	// and the command line can be inspected.
	Debug bool
}
