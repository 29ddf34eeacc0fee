// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netres

import (
	"errors"
	"fmt"
)

var (
	// ErrDaemonExited is returned if the networking daemon terminated before
	// its socket became ready.
	ErrDaemonExited = errors.New("daemon exited early")

	// ErrSocketNotReady is returned if the daemon socket did not appear in
	// time.
	ErrSocketNotReady = errors.New("daemon socket not ready")

	// ErrNotSocket is returned if the daemon socket path exists but is not a
	// socket.
	ErrNotSocket = errors.New("not a socket")

	// ErrDaemonStuck is returned if the networking daemon could not be
	// reaped after it was killed.
	ErrDaemonStuck = errors.New("daemon did not exit")

	// ErrLinkNotTap is returned if an interface with the name of the tap
	// exists but is no tap device.
	ErrLinkNotTap = errors.New("interface is not a tap device")

	// ErrInterfaceIsBridge is returned if the tap interface name equals the
	// bridge name.
	ErrInterfaceIsBridge = errors.New("interface name equals bridge name")
)

// SetupError is returned if a network resource could not be acquired.
type SetupError struct {
	// Mode the acquisition was attempted for.
	Mode Mode
	// Object is the name of the host object that failed, like an interface
	// name or a daemon binary.
	Object string
	// Hint is a corrective action for the operator, if one is known.
	Hint string
	Err  error
}

// Error implements the [error] interface.
func (e *SetupError) Error() string {
	msg := fmt.Sprintf("network %s: %s: %v", e.Mode, e.Object, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*SetupError) Is(other error) bool {
	_, ok := other.(*SetupError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *SetupError) Unwrap() error {
	return e.Err
}

// ReleaseError is returned if a network resource could not be released
// completely.
type ReleaseError struct {
	Mode   Mode
	Object string
	Err    error
}

// Error implements the [error] interface.
func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release network %s: %s: %v", e.Mode, e.Object, e.Err)
}

// Is implements the [errors.Is] interface.
func (*ReleaseError) Is(other error) bool {
	_, ok := other.(*ReleaseError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ReleaseError) Unwrap() error {
	return e.Err
}
