// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads configuration units describing a single emulated
// machine and validates them against the schema of the machine's
// architecture.
//
// A configuration unit is either a file of shell style "KEY=value"
// assignments or a flat YAML mapping (files ending in ".yaml" or ".yml").
// Unknown keys are ignored. All schema violations of a unit are reported
// together in a single [SchemaError].
package config
