// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aibor/emulaunch/internal/qemu"
)

func TestArgumentErrorIs(t *testing.T) {
	//nolint:testifylint
	assert.ErrorIs(t, error(&qemu.ArgumentError{}), &qemu.ArgumentError{})
	assert.NotErrorIs(t, assert.AnError, &qemu.ArgumentError{})
}

func TestLaunchErrorIs(t *testing.T) {
	err := error(&qemu.LaunchError{Executable: "qemu", Err: assert.AnError})

	assert.ErrorIs(t, err, &qemu.LaunchError{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, &qemu.CommandError{})
	assert.ErrorContains(t, err, "launch qemu")
}

func TestCommandErrorIs(t *testing.T) {
	err := error(&qemu.CommandError{Err: assert.AnError})

	assert.ErrorIs(t, err, &qemu.CommandError{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, assert.AnError, &qemu.CommandError{})
}
