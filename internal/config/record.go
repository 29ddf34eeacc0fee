// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"github.com/aibor/emulaunch/internal/arch"
	"github.com/aibor/emulaunch/internal/netres"
)

// Record is the validated configuration of one emulated machine.
//
// It is created by [Load] and passed by value. It is never written back.
type Record struct {
	// Path of the configuration unit the record was loaded from.
	Path string

	// Name identifies the configuration. Host side object names are derived
	// from it.
	Name string

	Arch    arch.Arch
	Machine string

	// MemoryMiB is the guest memory in MiB.
	MemoryMiB uint64

	// CPU overrides the machine's default CPU model, if not empty.
	CPU string

	// ROMPath is the firmware file, if any.
	ROMPath string

	Disk   Image
	Shared Image

	// ParameterBlockPath is the path of the parameter block file for
	// architectures that use one.
	ParameterBlockPath string

	// ExtraSize is the size in bytes extra disks are created with.
	ExtraSize int64

	Graphics    string
	Performance Performance
	Network     Network
}

// Image is a disk image declared by the configuration.
type Image struct {
	Path string
	// Size in bytes. Only used if the image is created.
	Size int64
}

// Declared reports whether the image is configured at all.
func (i Image) Declared() bool {
	return i.Path != ""
}

// Performance holds optional emulator tuning knobs. Empty values are not
// passed to the emulator.
type Performance struct {
	CacheMode string
	AIOMode   string
	TCGThread string
	// TBSizeMiB is the translation cache size. Zero means unset.
	TBSizeMiB uint64
}

// Network holds the network knobs of the configuration.
type Network struct {
	Mode         netres.Mode
	Bridge       string
	Interface    string
	MAC          string
	NICModel     string
	DaemonBinary string
}
