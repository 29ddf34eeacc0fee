// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aibor/emulaunch/internal/config"
	"github.com/aibor/emulaunch/internal/pram"
)

func (a *app) pramCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pram",
		Short: "Inspect parameter blocks",
	}

	cmd.AddCommand(a.pramShowCommand())

	return cmd
}

func (a *app) pramShowCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "show <config>",
		Short: "Print the boot device encoded in the parameter block",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.showParameterBlock(afero.NewOsFs(), args[0], dump)
		},
	}

	cmd.Flags().BoolVar(&dump, "hex", false, "also print a hex dump of the parameter block")

	return cmd
}

func (a *app) showParameterBlock(fsys afero.Fs, path string, dump bool) error {
	record, err := config.Load(fsys, path)
	if err != nil {
		return err
	}

	if !record.Arch.HasParameterBlock() {
		return &ParseArgsError{msg: record.Arch.String(), err: ErrNoParameterBlock}
	}

	blockPath := record.ParameterBlockPath
	bus := strings.ToUpper(string(record.Arch.Bus()))

	busID, err := pram.Read(fsys, blockPath)

	switch {
	case errors.Is(err, pram.ErrNoBusID):
		fmt.Fprintf(a.io.Stdout, "%s: boot device not set\n", blockPath)
	case err != nil:
		return err
	default:
		target := "unknown"
		if t, ok := record.Arch.BusIDTarget(busID); ok {
			target = t.String()
		}

		fmt.Fprintf(a.io.Stdout, "%s: boot device %s id %d (%s)\n",
			blockPath, bus, busID, target)
	}

	if dump {
		data, err := afero.ReadFile(fsys, blockPath)
		if err != nil {
			return &pram.CodecError{Path: blockPath, Err: err}
		}

		fmt.Fprint(a.io.Stdout, hex.Dump(data))
	}

	return nil
}
