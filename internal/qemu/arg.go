// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a QEMU argument with or without value.
//
// Its name might be marked to be unique in an argument list.
type Argument struct {
	name          string
	value         string
	nonUniqueName bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	s := "-" + a.name
	if a.value != "" {
		s += " " + a.value
	}

	return s
}

// Name returns the name of the [Argument].
func (a Argument) Name() string {
	return a.name
}

// Value returns the value of the [Argument].
func (a Argument) Value() string {
	return a.value
}

// UniqueName returns if the name of the [Argument] must be unique in an
// argument list.
func (a Argument) UniqueName() bool {
	return !a.nonUniqueName
}

// Equal compares the [Argument]s.
//
// If the name is marked unique, only names are compared. Otherwise name and
// value are compared.
func (a Argument) Equal(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.nonUniqueName {
		return a.value == other.value
	}

	return true
}

// UniqueArg returns a new [Argument] with the given name that is marked as
// unique and so can be used in an argument list only once.
//
// Multiple options are joined with commas. Empty options are skipped.
func UniqueArg(name string, opts ...string) Argument {
	return Argument{
		name:  name,
		value: joinOptions(opts),
	}
}

// RepeatableArg returns a new [Argument] with the given name that is not
// unique and so can be used in an argument list multiple times.
//
// Multiple options are joined with commas. Empty options are skipped.
func RepeatableArg(name string, opts ...string) Argument {
	return Argument{
		name:          name,
		value:         joinOptions(opts),
		nonUniqueName: true,
	}
}

// Option returns a "key=value" option string. It is empty if value is empty,
// so optional settings can be passed unconditionally.
func Option(key, value string) string {
	if value == "" {
		return ""
	}

	return key + "=" + value
}

func joinOptions(opts []string) string {
	return strings.Join(slices.DeleteFunc(slices.Clone(opts), func(s string) bool {
		return s == ""
	}), ",")
}

// BuildArgumentStrings compiles the [Argument]s into a slice of strings which
// can be used with [exec.Command].
//
// It returns an error if any name uniqueness constraints of any [Argument] is
// violated.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	argStrings := make([]string, 0, 2*len(args))

	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.Equal); i != -1 {
			return nil, fmt.Errorf(
				"%w: %s, %s",
				ErrArgumentCollision,
				arg.String(),
				args[i].String(),
			)
		}

		argStrings = append(argStrings, "-"+arg.name)

		if arg.value != "" {
			argStrings = append(argStrings, arg.value)
		}
	}

	return argStrings, nil
}
