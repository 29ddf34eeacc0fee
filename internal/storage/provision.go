// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/aibor/emulaunch/internal/config"
	"github.com/aibor/emulaunch/internal/pram"
)

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o644
)

// Provisioner creates missing disk images and parameter blocks.
type Provisioner struct {
	Fs     afero.Fs
	Logger *slog.Logger
}

// New returns a [Provisioner] operating on the given file system.
func New(fsys afero.Fs, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Provisioner{
		Fs:     fsys,
		Logger: logger,
	}
}

// Ensure creates every file the record declares that does not exist yet.
//
// Disk images are created sparse with their configured size. Extra disks are
// created with the record's extra size. The parameter block is created with
// [pram.Size] zero bytes if it is absent or empty. Files with content are left
// untouched.
func (p *Provisioner) Ensure(record config.Record, extras []string) error {
	if record.Disk.Declared() {
		err := p.ensureImage(record.Disk.Path, record.Disk.Size, RolePrimary)
		if err != nil {
			return err
		}
	}

	if record.Shared.Declared() {
		err := p.ensureImage(record.Shared.Path, record.Shared.Size, RoleShared)
		if err != nil {
			return err
		}
	}

	for _, extra := range extras {
		err := p.ensureImage(extra, record.ExtraSize, RoleExtra)
		if err != nil {
			return err
		}
	}

	if record.Arch.HasParameterBlock() && record.ParameterBlockPath != "" {
		err := p.ensureParameterBlock(record.ParameterBlockPath)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Provisioner) ensureImage(path string, size int64, role Role) error {
	_, exists, err := p.stat(path)
	if err != nil {
		return &ProvisionError{Path: path, Role: role, Err: err}
	}

	if exists {
		return nil
	}

	err = p.create(path, func(file afero.File) error {
		// Truncating an empty file leaves a hole instead of allocating.
		return file.Truncate(size)
	})
	if err != nil {
		return &ProvisionError{Path: path, Role: role, Err: err}
	}

	p.Logger.Info("Created disk image",
		slog.String("role", string(role)),
		slog.String("path", path),
		slog.String("size", humanize.IBytes(uint64(size))),
	)

	return nil
}

func (p *Provisioner) ensureParameterBlock(path string) error {
	size, exists, err := p.stat(path)
	if err != nil {
		return &ProvisionError{Path: path, Role: RoleParameterBlock, Err: err}
	}

	if exists && size > 0 {
		return nil
	}

	err = p.create(path, func(file afero.File) error {
		_, err := file.Write(make([]byte, pram.Size))
		return err //nolint:wrapcheck
	})
	if err != nil {
		return &ProvisionError{Path: path, Role: RoleParameterBlock, Err: err}
	}

	p.Logger.Info("Created parameter block", slog.String("path", path))

	return nil
}

// stat returns the size of the regular file at path and if it exists.
func (p *Provisioner) stat(path string) (int64, bool, error) {
	info, err := p.Fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, err //nolint:wrapcheck
	}

	if !info.Mode().IsRegular() {
		return 0, false, ErrNotRegularFile
	}

	return info.Size(), true, nil
}

// create creates the file at path with its parent directories and fills it
// with the given function. An existing empty file is reused.
func (p *Provisioner) create(path string, fill func(afero.File) error) error {
	err := p.Fs.MkdirAll(filepath.Dir(path), dirMode)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := p.Fs.OpenFile(path, os.O_WRONLY|os.O_CREATE, fileMode)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	err = fill(file)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("fill: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}
