// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netres

import (
	"errors"
	"slices"
)

// Mode is the network mode of a session. It is selected once per session.
type Mode string

const (
	// ModeUser is the emulator's built-in NAT networking.
	ModeUser Mode = "user"
	// ModeTap attaches a tap interface to a host bridge.
	ModeTap Mode = "tap"
	// ModePasst connects to a passt daemon via UNIX socket.
	ModePasst Mode = "passt"
)

// ErrModeInvalid is returned for unknown network modes.
var ErrModeInvalid = errors.New("unknown network mode")

var knownModes = []Mode{ModeUser, ModeTap, ModePasst}

// ModeNames returns the names of all known modes.
func ModeNames() []string {
	names := make([]string, 0, len(knownModes))
	for _, m := range knownModes {
		names = append(names, string(m))
	}

	return names
}

// ParseMode returns the [Mode] for the given name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(knownModes, m) {
		return "", ErrModeInvalid
	}

	return m, nil
}

func (m Mode) String() string {
	return string(m)
}

// Set implements [pflag.Value].
func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Type implements [pflag.Value].
func (*Mode) Type() string {
	return "mode"
}
