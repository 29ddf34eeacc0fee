// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session runs a single emulator session.
//
// A session loads and validates a configuration unit, provisions its disk
// images and parameter block, encodes the boot device, acquires the network
// resource, and finally runs the emulator. The network resource is released
// once the emulator exited, no matter how the session ended.
package session
