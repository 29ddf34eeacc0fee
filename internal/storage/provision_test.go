// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/emulaunch/internal/arch"
	"github.com/aibor/emulaunch/internal/config"
	"github.com/aibor/emulaunch/internal/pram"
	"github.com/aibor/emulaunch/internal/storage"
)

const gib = 1 << 30

func m68kRecord() config.Record {
	return config.Record{
		Arch: arch.M68K,
		Disk: config.Image{
			Path: "/vm/disks/hdd.img",
			Size: 2 * gib,
		},
		Shared: config.Image{
			Path: "/vm/shared/shared.img",
			Size: 200 << 20,
		},
		ParameterBlockPath: "/vm/pram.img",
		ExtraSize:          gib,
	}
}

// sparseFs returns a file system backed by a temporary directory. Images are
// created sparse there, unlike in memory.
func sparseFs(t *testing.T) afero.Fs {
	t.Helper()

	return afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
}

// writeFile writes data to path, creating the parent directories first.
func writeFile(t *testing.T, fsys afero.Fs, path string, data []byte) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, data, 0o644))
}

func fileSize(t *testing.T, fsys afero.Fs, path string) int64 {
	t.Helper()

	info, err := fsys.Stat(path)
	require.NoError(t, err)

	return info.Size()
}

func TestEnsure(t *testing.T) {
	fsys := sparseFs(t)
	provisioner := storage.New(fsys, nil)

	require.NoError(t, provisioner.Ensure(m68kRecord(), []string{"/vm/extra/x.img"}))

	assert.Equal(t, int64(2*gib), fileSize(t, fsys, "/vm/disks/hdd.img"))
	assert.Equal(t, int64(200<<20), fileSize(t, fsys, "/vm/shared/shared.img"))
	assert.Equal(t, int64(gib), fileSize(t, fsys, "/vm/extra/x.img"))

	block, err := afero.ReadFile(fsys, "/vm/pram.img")
	require.NoError(t, err)
	assert.Equal(t, make([]byte, pram.Size), block)
}

func TestEnsureIdempotent(t *testing.T) {
	fsys := sparseFs(t)
	provisioner := storage.New(fsys, nil)
	record := m68kRecord()

	require.NoError(t, provisioner.Ensure(record, nil))
	require.NoError(t, pram.Patch(fsys, record.ParameterBlockPath, 3))

	before, err := afero.ReadFile(fsys, record.ParameterBlockPath)
	require.NoError(t, err)

	require.NoError(t, provisioner.Ensure(record, nil))

	after, err := afero.ReadFile(fsys, record.ParameterBlockPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "parameter block must not be overwritten")
	assert.Equal(t, int64(2*gib), fileSize(t, fsys, record.Disk.Path))
}

func TestEnsureKeepsExistingFiles(t *testing.T) {
	fsys := sparseFs(t)
	record := m68kRecord()

	writeFile(t, fsys, record.Disk.Path, []byte("disk"))
	writeFile(t, fsys, record.ParameterBlockPath, []byte{1, 2, 3})

	require.NoError(t, storage.New(fsys, nil).Ensure(record, nil))

	disk, err := afero.ReadFile(fsys, record.Disk.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("disk"), disk)

	block, err := afero.ReadFile(fsys, record.ParameterBlockPath)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, block)
}

func TestEnsureFillsEmptyParameterBlock(t *testing.T) {
	fsys := sparseFs(t)
	record := m68kRecord()

	writeFile(t, fsys, record.ParameterBlockPath, nil)
	require.NoError(t, storage.New(fsys, nil).Ensure(record, nil))

	assert.Equal(t, int64(pram.Size), fileSize(t, fsys, record.ParameterBlockPath))
}

func TestEnsureWithoutParameterBlock(t *testing.T) {
	fsys := sparseFs(t)
	record := config.Record{
		Arch: arch.PPC,
		Disk: config.Image{Path: "/vm/hdd.img", Size: gib},
	}

	require.NoError(t, storage.New(fsys, nil).Ensure(record, nil))

	entries, err := afero.ReadDir(fsys, "/vm")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hdd.img", entries[0].Name())
}

func TestEnsureErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, fsys afero.Fs) afero.Fs
		role  storage.Role
	}{
		{
			name: "directory in place of image",
			setup: func(t *testing.T, fsys afero.Fs) afero.Fs {
				t.Helper()
				require.NoError(t, fsys.MkdirAll("/vm/disks/hdd.img", 0o755))
				return fsys
			},
			role: storage.RolePrimary,
		},
		{
			name: "read-only file system",
			setup: func(_ *testing.T, fsys afero.Fs) afero.Fs {
				return afero.NewReadOnlyFs(fsys)
			},
			role: storage.RolePrimary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := tt.setup(t, sparseFs(t))

			err := storage.New(fsys, nil).Ensure(m68kRecord(), nil)
			require.ErrorIs(t, err, &storage.ProvisionError{})

			var provisionErr *storage.ProvisionError
			require.True(t, errors.As(err, &provisionErr))
			assert.Equal(t, tt.role, provisionErr.Role)
			assert.Equal(t, "/vm/disks/hdd.img", provisionErr.Path)
		})
	}
}

func TestEnsureParameterBlockIsDirectory(t *testing.T) {
	fsys := sparseFs(t)
	record := m68kRecord()
	require.NoError(t, fsys.MkdirAll(record.ParameterBlockPath, os.ModePerm))

	err := storage.New(fsys, nil).Ensure(record, nil)
	require.ErrorIs(t, err, storage.ErrNotRegularFile)

	var provisionErr *storage.ProvisionError
	require.ErrorAs(t, err, &provisionErr)
	assert.Equal(t, storage.RoleParameterBlock, provisionErr.Role)
}
