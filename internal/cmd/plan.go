// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aibor/emulaunch/internal/netres"
	"github.com/aibor/emulaunch/internal/session"
)

const mib = 1 << 20

func writePlan(w io.Writer, plan *session.Plan) error {
	record := plan.Record

	lines := [][2]string{
		{"Configuration", fmt.Sprintf("%s (%s)", record.Name, record.Path)},
		{"Architecture", fmt.Sprintf("%s, machine %s", record.Arch, record.Machine)},
		{"Memory", humanize.IBytes(record.MemoryMiB * mib)},
		{"Primary disk", record.Disk.Path},
	}

	if record.Shared.Path != "" {
		lines = append(lines, [2]string{"Shared disk", record.Shared.Path})
	}

	for _, extra := range plan.Options.Extras {
		lines = append(lines, [2]string{"Extra disk", extra})
	}

	if plan.Medium.Path != "" {
		medium := plan.Medium.Path
		if plan.Medium.Label != "" {
			medium += fmt.Sprintf(" (label %s)", plan.Medium.Label)
		}

		lines = append(lines, [2]string{"Removable", medium})
	}

	lines = append(lines,
		[2]string{"Boot", fmt.Sprintf("%s, %s id %d",
			plan.Options.Boot, strings.ToUpper(string(record.Arch.Bus())), plan.BootBusID)},
		[2]string{"Network", describeNetwork(plan)},
		[2]string{"Command", plan.Command.String()},
	)

	for _, line := range lines {
		_, err := fmt.Fprintf(w, "%-14s %s\n", line[0]+":", line[1])
		if err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
	}

	return nil
}

func describeNetwork(plan *session.Plan) string {
	spec := plan.Network

	desc := spec.Mode.String()

	switch spec.Mode {
	case netres.ModeTap:
		desc += fmt.Sprintf(", interface %s on bridge %s", spec.InterfaceName(), spec.Bridge)
	case netres.ModePasst:
		desc += ", daemon " + spec.DaemonBinary
	}

	if plan.MAC != "" {
		desc += ", address " + plan.MAC
	}

	return desc
}
