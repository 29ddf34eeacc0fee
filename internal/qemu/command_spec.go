// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"strconv"

	"github.com/aibor/emulaunch/internal/arch"
	"github.com/aibor/emulaunch/internal/netres"
)

const netdevID = "net0"

// CommandSpec defines the parameters for a [Command].
//
// Empty optional fields are not passed to the emulator, so it applies its own
// defaults.
type CommandSpec struct {
	Arch arch.Arch

	// Path to the qemu-system binary. Defaults to the one of the
	// architecture.
	Executable string

	// QEMU machine type to use.
	Machine string

	// CPU type to use. Depends on machine type and QEMU binary used.
	CPU string

	// Memory for the machine in MiB.
	MemoryMiB uint64

	// ROM is the firmware image.
	ROM string

	// Graphics is the initial display resolution as WxHxD.
	Graphics string

	// ParameterBlock is the parameter RAM image for architectures that
	// use one.
	ParameterBlock string

	// Disk is the primary disk image.
	Disk string

	// Shared is the shared disk image.
	Shared string

	// Removable is the removable medium image, usually a CD-ROM image.
	Removable string

	// Extras are additional disk images. They are attached in order.
	Extras []string

	// Boot is the device the guest is supposed to boot from.
	Boot arch.BootTarget

	// Display forces the given display backend.
	Display string

	// Performance knobs.
	CacheMode string
	AIOMode   string
	TCGThread string
	TBSizeMiB uint64

	Network NetworkSpec
}

// NetworkSpec describes the guest network of a [CommandSpec].
type NetworkSpec struct {
	Mode netres.Mode

	// Endpoint is the tap interface name for [netres.ModeTap] and the
	// daemon socket path for [netres.ModePasst].
	Endpoint string

	// NICModel is the emulated network card. Defaults to the one of the
	// architecture.
	NICModel string

	// MAC is the guest hardware address, if set.
	MAC string
}

// Validate checks for missing and conflicting settings.
func (s *CommandSpec) Validate() error {
	if !s.Arch.IsValid() {
		return &ArgumentError{msg: "architecture", err: arch.ErrArchNotSupported}
	}

	if s.Machine == "" {
		return &ArgumentError{msg: "machine must not be empty"}
	}

	if s.Disk == "" {
		return &ArgumentError{msg: "primary disk must not be empty"}
	}

	if s.Arch.HasParameterBlock() && s.ParameterBlock == "" {
		return &ArgumentError{msg: "parameter block required for " + s.Arch.String()}
	}

	if s.Boot == arch.BootRemovable && s.Removable == "" {
		return &ArgumentError{msg: "boot target", err: ErrNoBootMedium}
	}

	if slots := len(s.Arch.Layout(s.Boot).Extra); len(s.Extras) > slots {
		return &ArgumentError{
			msg: fmt.Sprintf("%d given, %d free slots", len(s.Extras), slots),
			err: ErrTooManyDisks,
		}
	}

	switch s.Network.Mode {
	case netres.ModeUser:
	case netres.ModeTap, netres.ModePasst:
		if s.Network.Endpoint == "" {
			return &ArgumentError{msg: "network endpoint required for " + s.Network.Mode.String()}
		}
	default:
		return &ArgumentError{msg: "network", err: netres.ErrModeInvalid}
	}

	return nil
}

func (s *CommandSpec) executable() string {
	if s.Executable != "" {
		return s.Executable
	}

	return s.Arch.Executable()
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		UniqueArg("M", s.Machine),
	}

	if s.MemoryMiB != 0 {
		args = append(args, UniqueArg("m", strconv.FormatUint(s.MemoryMiB, 10)))
	}

	if s.CPU != "" {
		args = append(args, UniqueArg("cpu", s.CPU))
	}

	if s.ROM != "" {
		args = append(args, UniqueArg("bios", s.ROM))
	}

	if s.Graphics != "" {
		args = append(args, UniqueArg("g", s.Graphics))
	}

	if s.Arch.HasParameterBlock() {
		args = append(args, RepeatableArg("drive",
			"file="+s.ParameterBlock,
			"format=raw",
			"if=mtd",
		))
	}

	args = append(args, s.storageArguments()...)

	if s.Arch.Bus() == arch.BusIDE {
		// The firmware of IDE machines is told by flag, SCSI machines read
		// the boot device from the parameter block.
		order := "c"
		if s.Boot == arch.BootRemovable {
			order = "d"
		}

		args = append(args, UniqueArg("boot", order))
	}

	if s.Display != "" {
		args = append(args, UniqueArg("display", s.Display))
	}

	if s.TCGThread != "" || s.TBSizeMiB != 0 {
		tbSize := ""
		if s.TBSizeMiB != 0 {
			tbSize = strconv.FormatUint(s.TBSizeMiB, 10)
		}

		args = append(args, UniqueArg("accel",
			"tcg",
			Option("thread", s.TCGThread),
			Option("tb-size", tbSize),
		))
	}

	return append(args, s.networkArguments()...)
}

type medium string

const (
	mediumDisk  medium = "disk"
	mediumCDROM medium = "cdrom"
)

type storageDevice struct {
	id     string
	path   string
	medium medium
	busID  int
}

// storageDevices returns the attached storage devices with their bus
// identifiers. Validate must have passed.
func (s *CommandSpec) storageDevices() []storageDevice {
	layout := s.Arch.Layout(s.Boot)

	devices := []storageDevice{
		{id: "hd0", path: s.Disk, medium: mediumDisk, busID: layout.Primary},
	}

	if s.Shared != "" {
		devices = append(devices, storageDevice{
			id:     "shared0",
			path:   s.Shared,
			medium: mediumDisk,
			busID:  layout.Shared,
		})
	}

	if s.Removable != "" {
		devices = append(devices, storageDevice{
			id:     "cd0",
			path:   s.Removable,
			medium: mediumCDROM,
			busID:  layout.Removable,
		})
	}

	for idx, path := range s.Extras {
		devices = append(devices, storageDevice{
			id:     fmt.Sprintf("extra%d", idx),
			path:   path,
			medium: mediumDisk,
			busID:  layout.Extra[idx],
		})
	}

	return devices
}

func (s *CommandSpec) storageArguments() []Argument {
	var args []Argument

	for _, dev := range s.storageDevices() {
		driveOpts := []string{
			"file=" + dev.path,
			"format=raw",
			"media=" + string(dev.medium),
		}

		if dev.medium == mediumDisk {
			driveOpts = append(driveOpts,
				Option("cache", s.CacheMode),
				Option("aio", s.AIOMode),
			)
		}

		switch s.Arch.Bus() {
		case arch.BusSCSI:
			device := "scsi-hd"
			if dev.medium == mediumCDROM {
				device = "scsi-cd"
			}

			args = append(args,
				RepeatableArg("device",
					device,
					"scsi-id="+strconv.Itoa(dev.busID),
					"drive="+dev.id,
				),
				RepeatableArg("drive",
					append(driveOpts, "if=none", "id="+dev.id)...,
				),
			)
		case arch.BusIDE:
			args = append(args, RepeatableArg("drive",
				append(driveOpts, "if=ide", "index="+strconv.Itoa(dev.busID))...,
			))
		}
	}

	return args
}

func (s *CommandSpec) networkArguments() []Argument {
	var netdev Argument

	switch s.Network.Mode {
	case netres.ModeTap:
		netdev = UniqueArg("netdev",
			"tap",
			"id="+netdevID,
			"ifname="+s.Network.Endpoint,
			"script=no",
			"downscript=no",
		)
	case netres.ModePasst:
		netdev = UniqueArg("netdev",
			"stream",
			"id="+netdevID,
			"server=off",
			"addr.type=unix",
			"addr.path="+s.Network.Endpoint,
		)
	default:
		netdev = UniqueArg("netdev", "user", "id="+netdevID)
	}

	model := s.Network.NICModel
	if model == "" {
		model = s.Arch.NICModel()
	}

	nic := UniqueArg("net",
		"nic",
		"model="+model,
		"netdev="+netdevID,
		Option("macaddr", s.Network.MAC),
	)

	return []Argument{netdev, nic}
}
