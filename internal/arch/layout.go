// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package arch

import "slices"

// BootTarget is the device the guest firmware is asked to boot from.
type BootTarget int

const (
	// BootPrimary boots from the primary disk image.
	BootPrimary BootTarget = iota
	// BootRemovable boots from the attached removable medium.
	BootRemovable
)

func (t BootTarget) String() string {
	if t == BootRemovable {
		return "removable"
	}

	return "primary"
}

// Layout assigns bus identifiers to the storage devices of a machine.
//
// Extra lists the identifiers left for additional disks, in the order they
// are handed out.
type Layout struct {
	Primary   int
	Shared    int
	Removable int
	Extra     []int
}

// Layout returns the bus layout used for the given boot target.
//
// The returned value is a copy and may be modified by the caller.
func (a Arch) Layout(target BootTarget) Layout {
	p := profiles[a]

	layout := p.primaryLayout
	if target == BootRemovable {
		layout = p.removableLayout
	}

	layout.Extra = slices.Clone(layout.Extra)

	return layout
}

// BootBusID returns the bus identifier of the device the firmware boots from
// for the given target. The parameter block codec and the command synthesizer
// both rely on it, so the encoded boot device always matches the attachment.
func (a Arch) BootBusID(target BootTarget) int {
	layout := a.Layout(target)
	if target == BootRemovable {
		return layout.Removable
	}

	return layout.Primary
}

// BusIDTarget returns the boot target the given bus identifier refers to, if
// any.
func (a Arch) BusIDTarget(id int) (BootTarget, bool) {
	for _, target := range []BootTarget{BootPrimary, BootRemovable} {
		if a.BootBusID(target) == id {
			return target, true
		}
	}

	return BootPrimary, false
}
