// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package arch

import (
	"errors"
	"slices"
	"strings"
)

// Arch is the architecture tag of an emulated machine.
type Arch string

// Supported guest architectures.
const (
	M68K Arch = "m68k"
	PPC  Arch = "ppc"
)

// ErrArchNotSupported is returned if an architecture tag is not known.
var ErrArchNotSupported = errors.New("architecture not supported")

// DiskBus is the storage bus devices are attached to.
type DiskBus string

const (
	// BusSCSI addresses devices by SCSI ID.
	BusSCSI DiskBus = "scsi"
	// BusIDE addresses devices by IDE unit index.
	BusIDE DiskBus = "ide"
)

type profile struct {
	executable      string
	bus             DiskBus
	nicModel        string
	graphics        string
	parameterBlock  bool
	primaryLayout   Layout
	removableLayout Layout
}

var profiles = map[Arch]profile{
	M68K: {
		executable:     "qemu-system-m68k",
		bus:            BusSCSI,
		nicModel:       "dp83932",
		graphics:       "1152x870x8",
		parameterBlock: true,
		primaryLayout: Layout{
			Primary:   0,
			Shared:    1,
			Removable: 3,
			Extra:     []int{2, 4, 5, 6},
		},
		removableLayout: Layout{
			Primary:   6,
			Shared:    1,
			Removable: 3,
			Extra:     []int{0, 2, 4, 5},
		},
	},
	PPC: {
		executable: "qemu-system-ppc",
		bus:        BusIDE,
		nicModel:   "sungem",
		graphics:   "1024x768x32",
		primaryLayout: Layout{
			Primary:   0,
			Shared:    1,
			Removable: 2,
			Extra:     []int{3},
		},
		removableLayout: Layout{
			Primary:   3,
			Shared:    1,
			Removable: 2,
			Extra:     []int{0},
		},
	},
}

// Supported returns all supported architectures in stable order.
func Supported() []Arch {
	all := make([]Arch, 0, len(profiles))
	for a := range profiles {
		all = append(all, a)
	}

	slices.Sort(all)

	return all
}

// Parse returns the [Arch] for the given tag. Surrounding whitespace and case
// are ignored.
func Parse(s string) (Arch, error) {
	a := Arch(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", ErrArchNotSupported
	}

	return a, nil
}

// IsValid reports whether the architecture is supported.
func (a Arch) IsValid() bool {
	_, exists := profiles[a]
	return exists
}

func (a Arch) String() string {
	return string(a)
}

// Set implements [pflag.Value].
func (a *Arch) Set(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}

// Type implements [pflag.Value].
func (*Arch) Type() string {
	return "arch"
}

// Executable returns the name of the emulator binary for the architecture.
func (a Arch) Executable() string {
	return profiles[a].executable
}

// Bus returns the storage bus disks and media are attached to.
func (a Arch) Bus() DiskBus {
	return profiles[a].bus
}

// NICModel returns the default guest network card model.
func (a Arch) NICModel() string {
	return profiles[a].nicModel
}

// Graphics returns the default graphics resolution.
func (a Arch) Graphics() string {
	return profiles[a].graphics
}

// HasParameterBlock reports whether the machine's firmware reads boot
// preferences from a parameter block file.
func (a Arch) HasParameterBlock() bool {
	return profiles[a].parameterBlock
}
