// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"errors"
	"fmt"
)

var (
	// ErrArgumentCollision is returned if two [Argument]s are considered equal.
	ErrArgumentCollision = errors.New("colliding args")

	// ErrTooManyDisks is returned if more extra disks are given than the bus
	// has free slots.
	ErrTooManyDisks = errors.New("too many extra disks")

	// ErrNoBootMedium is returned if booting from the removable medium is
	// requested without one.
	ErrNoBootMedium = errors.New("no removable medium to boot from")
)

// ArgumentError indicates an issue with an input argument.
type ArgumentError struct {
	msg string
	err error
}

// Error implements the [error] interface.
func (e *ArgumentError) Error() string {
	msg := "argument error: " + e.msg
	if e.err != nil {
		msg += ": " + e.err.Error()
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*ArgumentError) Is(other error) bool {
	_, ok := other.(*ArgumentError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ArgumentError) Unwrap() error {
	return e.err
}

// LaunchError is returned if the emulator process could not be started.
type LaunchError struct {
	Executable string
	Err        error
}

// Error implements the [error] interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Executable, e.Err)
}

// Is implements the [errors.Is] interface.
func (*LaunchError) Is(other error) bool {
	_, ok := other.(*LaunchError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CommandError wraps errors that occurred while waiting for a started
// emulator process.
type CommandError struct {
	Err error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	return "emulator: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
