// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pram encodes the boot device into the parameter RAM image of m68k
// machines.
//
// The firmware boots from the device whose driver reference number is stored
// big-endian at [Offset]. The reference number of the SCSI device with id n is
// the one's complement of n+32.
package pram

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

const (
	// Size of a parameter RAM image.
	Size = 256

	// Offset of the boot device reference number.
	Offset = 0x7A

	// Width of the boot device reference number in bytes.
	Width = 2

	maxBusID = 0xFFFF - 32
)

// ErrShortFile is returned if a file is too small to hold the boot device.
var ErrShortFile = errors.New("file too short")

// ErrNoBusID is returned if the stored reference number does not denote a
// bus id.
var ErrNoBusID = errors.New("no bus id")

// CodecError is returned if the parameter RAM image can not be read or
// written.
type CodecError struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("parameter block %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*CodecError) Is(other error) bool {
	_, ok := other.(*CodecError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CodecError) Unwrap() error {
	return e.Err
}

// RefNum returns the driver reference number for the given bus id.
func RefNum(busID int) uint16 {
	return ^uint16(busID + 32)
}

// BusID returns the bus id the given reference number denotes. A zero
// reference number, as found in fresh images, denotes none.
func BusID(refNum uint16) (int, error) {
	id := int(^refNum) - 32
	if refNum == 0 || id < 0 {
		return 0, fmt.Errorf("%w: reference number %#04x", ErrNoBusID, refNum)
	}

	return id, nil
}

// Patch writes the reference number for busID into the existing file at path.
//
// Only the [Width] bytes at [Offset] are written, the remainder of the file is
// left as is. The file must exist and must be large enough.
func Patch(fsys afero.Fs, path string, busID int) error {
	if busID < 0 || busID > maxBusID {
		return &CodecError{Path: path, Err: fmt.Errorf("bus id %d out of range", busID)}
	}

	file, err := openSized(fsys, path, os.O_WRONLY)
	if err != nil {
		return &CodecError{Path: path, Err: err}
	}

	var buf [Width]byte
	binary.BigEndian.PutUint16(buf[:], RefNum(busID))

	_, err = file.WriteAt(buf[:], Offset)
	if err != nil {
		_ = file.Close()
		return &CodecError{Path: path, Err: fmt.Errorf("write: %w", err)}
	}

	err = file.Close()
	if err != nil {
		return &CodecError{Path: path, Err: fmt.Errorf("close: %w", err)}
	}

	return nil
}

// Read returns the bus id stored in the file at path.
func Read(fsys afero.Fs, path string) (int, error) {
	file, err := openSized(fsys, path, os.O_RDONLY)
	if err != nil {
		return 0, &CodecError{Path: path, Err: err}
	}
	defer file.Close()

	var buf [Width]byte

	_, err = file.ReadAt(buf[:], Offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, &CodecError{Path: path, Err: fmt.Errorf("read: %w", err)}
	}

	id, err := BusID(binary.BigEndian.Uint16(buf[:]))
	if err != nil {
		return 0, &CodecError{Path: path, Err: err}
	}

	return id, nil
}

// openSized opens an existing file that is large enough to hold the reference
// number. It is never created or truncated.
func openSized(fsys afero.Fs, path string, flag int) (afero.File, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if info.Size() < Offset+Width {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFile, info.Size())
	}

	file, err := fsys.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	return file, nil
}
