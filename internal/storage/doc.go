// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage creates the disk images and the parameter block a session
// needs. Existing files are never modified.
package storage
