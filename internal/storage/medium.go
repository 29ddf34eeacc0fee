// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"strings"

	"github.com/kdomanski/iso9660"
	"github.com/spf13/afero"

	"github.com/aibor/emulaunch/internal/config"
)

// Medium describes a removable medium image.
type Medium struct {
	Path string
	Size int64
	// Label is the volume identifier of ISO 9660 images. It is empty for other
	// formats, like HFS images.
	Label string
}

// InspectMedium checks that the removable medium image at path exists and
// reads its volume label, if it has one.
func InspectMedium(fsys afero.Fs, path string) (Medium, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return Medium{}, &config.ResourceNotFoundError{Path: path, Err: err}
	}

	if !info.Mode().IsRegular() {
		return Medium{}, &config.ResourceNotFoundError{Path: path, Err: ErrNotRegularFile}
	}

	file, err := fsys.Open(path)
	if err != nil {
		return Medium{}, &config.ResourceNotFoundError{Path: path, Err: err}
	}
	defer file.Close()

	medium := Medium{
		Path: path,
		Size: info.Size(),
	}

	// Anything that is not ISO 9660 is passed to the emulator as is.
	image, err := iso9660.OpenImage(file)
	if err != nil {
		return medium, nil
	}

	label, err := image.Label()
	if err == nil {
		medium.Label = strings.TrimSpace(label)
	}

	return medium, nil
}
