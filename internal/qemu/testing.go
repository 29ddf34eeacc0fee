// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "github.com/stretchr/testify/assert"

// FlagValues returns the values of every occurrence of the flag with the given
// name in the argument vector, in order.
func FlagValues(args []string, name string) []string {
	var values []string

	for idx := 0; idx < len(args)-1; idx++ {
		if args[idx] == "-"+name {
			values = append(values, args[idx+1])
			idx++
		}
	}

	return values
}

// ArgumentValueAssertionFunc returns an [assert.ComparisonAssertionFunc] that
// can be used to assert the values of the flag with the given name in an
// argument vector.
func ArgumentValueAssertionFunc(
	name string,
	assertion assert.ComparisonAssertionFunc,
) assert.ComparisonAssertionFunc {
	return func(t assert.TestingT, arg1, arg2 any, arg3 ...any) bool {
		args, ok := arg1.([]string)
		if !assert.True(t, ok, "first argument should be []string") {
			return false
		}

		values := FlagValues(args, name)
		if len(values) == 0 {
			return assert.Fail(t, "Argument not found: -"+name)
		}

		return assertion(t, values, arg2, arg3...)
	}
}
