// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"fmt"

	"github.com/aibor/emulaunch/internal/config"
	"github.com/aibor/emulaunch/internal/netres"
	"github.com/aibor/emulaunch/internal/qemu"
	"github.com/aibor/emulaunch/internal/storage"
)

// Plan is everything a session is going to do, computed without changing any
// host state.
type Plan struct {
	Record  config.Record
	Options Options

	// Medium is the inspected removable medium. Its path is empty if no
	// medium is attached.
	Medium storage.Medium

	// BootBusID is the bus id of the boot device.
	BootBusID int

	Network netres.Spec

	// MAC is the guest hardware address. Empty lets the emulator choose.
	MAC string

	// Command is rendered with the would-be network endpoint. The real
	// endpoint is only known once the network resource is acquired.
	Command *qemu.Command
}

// Prepare loads the configuration unit at path and computes the launch plan.
//
// Nothing is created or modified. The same errors as in [Session.Run] are
// returned for invalid configurations and arguments.
func (s *Session) Prepare(path string, opts Options) (*Plan, error) {
	record, err := config.Load(s.fs(), path)
	if err != nil {
		return nil, err
	}

	if opts.Network != "" {
		record.Network.Mode = opts.Network
	}

	plan := &Plan{
		Record:    record,
		Options:   opts,
		BootBusID: record.Arch.BootBusID(opts.Boot),
		Network: netres.Spec{
			Mode:         record.Network.Mode,
			Name:         record.Name,
			Bridge:       record.Network.Bridge,
			Interface:    record.Network.Interface,
			DaemonBinary: record.Network.DaemonBinary,
		},
		MAC: record.Network.MAC,
	}

	if plan.MAC == "" && plan.Network.Mode == netres.ModeTap {
		plan.MAC = netres.DeriveMAC(record.Name)
	}

	if opts.Removable != "" {
		plan.Medium, err = storage.InspectMedium(s.fs(), opts.Removable)
		if err != nil {
			return nil, err
		}
	}

	plan.Command, err = s.command(plan, placeholderEndpoint(plan.Network))
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// command synthesizes the emulator command for the given network endpoint.
func (s *Session) command(plan *Plan, endpoint string) (*qemu.Command, error) {
	record := plan.Record
	spec := qemu.CommandSpec{
		Arch:           record.Arch,
		Executable:     s.Emulator,
		Machine:        record.Machine,
		CPU:            record.CPU,
		MemoryMiB:      record.MemoryMiB,
		ROM:            record.ROMPath,
		Graphics:       record.Graphics,
		ParameterBlock: record.ParameterBlockPath,
		Disk:           record.Disk.Path,
		Shared:         record.Shared.Path,
		Removable:      plan.Options.Removable,
		Extras:         plan.Options.Extras,
		Boot:           plan.Options.Boot,
		Display:        plan.Options.Display,
		CacheMode:      record.Performance.CacheMode,
		AIOMode:        record.Performance.AIOMode,
		TCGThread:      record.Performance.TCGThread,
		TBSizeMiB:      record.Performance.TBSizeMiB,
		Network: qemu.NetworkSpec{
			Mode:     plan.Network.Mode,
			Endpoint: endpoint,
			NICModel: record.Network.NICModel,
			MAC:      plan.MAC,
		},
	}

	if !record.Arch.HasParameterBlock() {
		spec.ParameterBlock = ""
	}

	cmd, err := qemu.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("build emulator command: %w", err)
	}

	cmd.Stdin, cmd.Stdout, cmd.Stderr = s.Stdin, s.Stdout, s.Stderr
	cmd.GracePeriod = s.GracePeriod

	return cmd, nil
}

func placeholderEndpoint(spec netres.Spec) string {
	switch spec.Mode {
	case netres.ModeTap:
		return spec.InterfaceName()
	case netres.ModePasst:
		return netres.PlaceholderSocketPath
	default:
		return ""
	}
}
