// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package netres manages the host side network resources of an emulator
// session.
//
// A [Resource] is acquired before the emulator is launched and must be
// released exactly once after it terminated, on every exit path. Partially
// acquired resources are rolled back by [Manager.Acquire] itself, so a failed
// acquisition never leaves anything behind.
//
// In [ModeTap] a tap interface is attached to a persistent host bridge. In
// [ModePasst] a passt daemon serves the guest via UNIX socket. [ModeUser]
// needs no host object at all.
package netres
