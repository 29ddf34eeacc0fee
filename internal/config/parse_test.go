// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/emulaunch/internal/config"
)

func TestParseAssignments(t *testing.T) {
	input := `
# Quadra 800
ARCH=m68k
export MACHINE=q800
RAM=128 # MiB
HDD_PATH="/my disks/hdd.img"
GRAPHICS='1152x870x8'
CPU_MODEL=
UNKNOWN_KEY=ignored
NAME_WITH_VAR=$HOME/x
`

	ns, err := config.Parse(strings.NewReader(input), "/vm/q800.conf")
	require.NoError(t, err)

	expected := config.Namespace{
		"ARCH":          "m68k",
		"MACHINE":       "q800",
		"RAM":           "128",
		"HDD_PATH":      "/my disks/hdd.img",
		"GRAPHICS":      "1152x870x8",
		"CPU_MODEL":     "",
		"UNKNOWN_KEY":   "ignored",
		"NAME_WITH_VAR": "$HOME/x",
	}
	assert.Equal(t, expected, ns)

	value, present := ns.Lookup("CPU_MODEL")
	assert.True(t, present, "present but empty")
	assert.Empty(t, value)

	_, present = ns.Lookup("ROM_PATH")
	assert.False(t, present)
}

func TestParseAssignmentsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{
			name:  "no assignment",
			input: "ARCH=m68k\njust words\n",
			line:  2,
		},
		{
			name:  "invalid key",
			input: "\n\n1ARCH=m68k\n",
			line:  3,
		},
		{
			name:  "unterminated quote",
			input: `HDD_PATH="/vm/hdd.img`,
			line:  1,
		},
		{
			name:  "shell operator",
			input: "RAM=128; rm -rf /\n",
			line:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(tt.input), "/vm/q800.conf")
			require.ErrorIs(t, err, &config.ParseError{})

			var parseErr *config.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Equal(t, "/vm/q800.conf", parseErr.Path)
		})
	}
}

func TestParseYAML(t *testing.T) {
	input := `
ARCH: ppc
MACHINE: mac99,via=pmu
RAM: 512
HDD_PATH: disks/hdd.img
CPU_MODEL: ""
`

	ns, err := config.Parse(strings.NewReader(input), "/vm/g4.yaml")
	require.NoError(t, err)

	assert.Equal(t, config.Namespace{
		"ARCH":      "ppc",
		"MACHINE":   "mac99,via=pmu",
		"RAM":       "512",
		"HDD_PATH":  "disks/hdd.img",
		"CPU_MODEL": "",
	}, ns)
}

func TestParseYAMLErrors(t *testing.T) {
	for name, input := range map[string]string{
		"nested":      "ARCH:\n  name: ppc\n",
		"invalid key": "not a key: x\n",
		"syntax":      "ARCH: [ppc\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(input), "/vm/g4.yml")
			assert.ErrorIs(t, err, &config.ParseError{})
		})
	}
}

func TestParseYAMLEmpty(t *testing.T) {
	ns, err := config.Parse(strings.NewReader(""), "/vm/empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, ns)
}
