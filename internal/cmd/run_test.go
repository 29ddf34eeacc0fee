// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/emulaunch/internal/cmd"
	"github.com/aibor/emulaunch/internal/exitcode"
	"github.com/aibor/emulaunch/internal/pram"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer

	code := cmd.Run(t.Context(), args, cmd.IO{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})

	return result{code, stdout.String(), stderr.String()}
}

// writeConfig writes a configuration unit for an m68k machine into a new
// directory and returns its path.
func writeConfig(t *testing.T, extra ...string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q800.rom"), []byte("rom"), 0o644))

	lines := append([]string{
		"ARCH=m68k",
		"CONFIG_NAME=mac",
		"MACHINE=q800",
		"RAM=128",
		"ROM_PATH=q800.rom",
		"HDD_PATH=hdd.img",
		"PRAM_PATH=pram.img",
	}, extra...)

	path := filepath.Join(dir, "mac.conf")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	return path
}

func fakeEmulator(t *testing.T, code string) string {
	t.Helper()

	t.Setenv(helperEnv, code)

	executable, err := os.Executable()
	require.NoError(t, err)

	return "--emulator=" + executable
}

func TestRunUsageErrors(t *testing.T) {
	config := writeConfig(t)

	tests := map[string][]string{
		"missing config":       {"run"},
		"too many args":        {"run", config, config},
		"unknown flag":         {"run", "--bogus", config},
		"unknown command":      {"frobnicate"},
		"unknown log level":    {"--log-level=loud", "check", config},
		"unknown log format":   {"--log-format=xml", "check", config},
		"unknown network mode": {"run", "--network=vde", config},
		"boot without medium":  {"run", "--boot-cdrom", config},
		"too many extra disks": {
			"check", config,
			"--extra-disk=a", "--extra-disk=b", "--extra-disk=c",
			"--extra-disk=d", "--extra-disk=e",
		},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			res := run(t, args...)
			assert.Equal(t, exitcode.Usage, res.code, res.stderr)
		})
	}
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.conf")
	require.NoError(t, os.WriteFile(invalid, []byte("ARCH=m68k\nRAM=lots\n"), 0o644))

	malformed := filepath.Join(dir, "malformed.conf")
	require.NoError(t, os.WriteFile(malformed, []byte("ARCH m68k\n"), 0o644))

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{
			name:     "missing config",
			args:     []string{"run", filepath.Join(dir, "missing.conf")},
			expected: exitcode.ResourceNotFound,
		},
		{
			name:     "schema violation",
			args:     []string{"run", invalid},
			expected: exitcode.Schema,
		},
		{
			name:     "empty network type",
			args:     []string{"check", writeConfig(t, "NETWORK_TYPE=")},
			expected: exitcode.Schema,
		},
		{
			name:     "empty disk size",
			args:     []string{"run", writeConfig(t, "HDD_SIZE=")},
			expected: exitcode.Schema,
		},
		{
			name:     "malformed line",
			args:     []string{"check", malformed},
			expected: exitcode.Schema,
		},
		{
			name:     "missing medium",
			args:     []string{"run", "--cdrom", filepath.Join(dir, "missing.iso"), writeConfig(t)},
			expected: exitcode.ResourceNotFound,
		},
		{
			name:     "emulator missing",
			args:     []string{"run", "--emulator", filepath.Join(dir, "qemu"), writeConfig(t)},
			expected: exitcode.Launch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, tt.expected, res.code, res.stderr)
			assert.NotEmpty(t, res.stderr)
		})
	}
}

func TestRunEmulator(t *testing.T) {
	for _, code := range []int{0, 1, 42} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			config := writeConfig(t)
			emulator := fakeEmulator(t, strconv.Itoa(code))

			res := run(t, "run", emulator, config)
			assert.Equal(t, code, res.code, res.stderr)
			assert.Contains(t, res.stdout, "-M q800 -m 128")
		})
	}
}

func TestRunCreatesResources(t *testing.T) {
	config := writeConfig(t, "HDD_SIZE=2G")
	dir := filepath.Dir(config)
	medium := filepath.Join(dir, "tools.img")
	require.NoError(t, os.WriteFile(medium, []byte("hfs"), 0o644))

	res := run(t, "run", fakeEmulator(t, "0"), "--cdrom", medium, "--boot-cdrom", config)
	require.Equal(t, 0, res.code, res.stderr)

	info, err := os.Stat(filepath.Join(dir, "hdd.img"))
	require.NoError(t, err)
	assert.Equal(t, int64(2<<30), info.Size())

	busID, err := pram.Read(afero.NewOsFs(), filepath.Join(dir, "pram.img"))
	require.NoError(t, err)
	assert.Equal(t, 3, busID)

	assert.Contains(t, res.stdout, "scsi-cd,scsi-id=3,drive=cd0")

	res = run(t, "pram", "show", "--hex", config)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "boot device SCSI id 3 (removable)")
	assert.Contains(t, res.stdout, "00 00 ff dc")
}

func TestRunDryRun(t *testing.T) {
	config := writeConfig(t, "NETWORK_TYPE=tap")

	res := run(t, "run", "--dry-run", config)
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Memory:        128 MiB")
	assert.Contains(t, res.stdout, "interface tap-mac on bridge br0")
	assert.Contains(t, res.stdout, "qemu-system-m68k -M q800")

	_, err := os.Stat(filepath.Join(filepath.Dir(config), "hdd.img"))
	assert.ErrorIs(t, err, os.ErrNotExist, "dry run must not create images")
}

func TestCheck(t *testing.T) {
	config := writeConfig(t)

	res := run(t, "check", "--network=passt", "--display=sdl", config)
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Configuration: mac ("+config+")")
	assert.Contains(t, res.stdout, "Network:       passt, daemon passt")
	assert.Contains(t, res.stdout, "-display sdl")
	assert.Contains(t, res.stdout, "Boot:          primary, SCSI id 0")
}

func TestPramShow(t *testing.T) {
	config := writeConfig(t)
	block := filepath.Join(filepath.Dir(config), "pram.img")

	res := run(t, "pram", "show", config)
	assert.Equal(t, exitcode.Codec, res.code, "missing parameter block")

	require.NoError(t, os.WriteFile(block, make([]byte, pram.Size), 0o644))

	res = run(t, "pram", "show", config)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "boot device not set")

	require.NoError(t, pram.Patch(afero.NewOsFs(), block, 0))

	res = run(t, "pram", "show", config)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "boot device SCSI id 0 (primary)")
}

func TestPramShowWithoutParameterBlock(t *testing.T) {
	config := filepath.Join(t.TempDir(), "g4.yaml")
	unit := "ARCH: ppc\nMACHINE: mac99\nRAM: 512\nHDD_PATH: g4.img\n"
	require.NoError(t, os.WriteFile(config, []byte(unit), 0o644))

	res := run(t, "pram", "show", config)
	assert.Equal(t, exitcode.Usage, res.code, res.stderr)
}

func TestVersion(t *testing.T) {
	res := run(t, "version")
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "Version: "))
}
