// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode defines the exit codes of the launcher.
//
// The exit code of the emulator is passed through as is. Failures of the
// launcher itself use the reserved range starting at [Usage], so callers can
// tell whether the session failed or never started.
package exitcode

import (
	"errors"
	"fmt"
)

// Reserved exit codes for failures before or around the emulator run.
const (
	Usage            = 100
	Schema           = 101
	ResourceNotFound = 102
	Provision        = 103
	Codec            = 104
	Network          = 105
	Launch           = 106
	Other            = 107
)

// IsReserved returns whether the code is in the range used by the launcher.
func IsReserved(code int) bool {
	return code >= Usage && code <= Other
}

// Error is a non-zero exit code of the emulator. It is not a failure of the
// launcher.
type Error int

func (e Error) Error() string {
	return fmt.Sprintf("emulator exited with code %d", int(e))
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the exit code as basic int type.
func (e Error) Code() int {
	return int(e)
}

// From returns an exit code based on the given error and if the error was an
// [Error].
//
// If the error is nil, the exit code is 0. If the error is an [Error] the exit
// code is the return value of [Error.Code]. Otherwise the exit code is
// [Other].
func From(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return Other, false
}
