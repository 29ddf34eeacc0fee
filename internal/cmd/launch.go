// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aibor/emulaunch/internal/arch"
	"github.com/aibor/emulaunch/internal/netres"
	"github.com/aibor/emulaunch/internal/qemu"
	"github.com/aibor/emulaunch/internal/session"
)

// launchFlags are the flags shared by all commands that compute a launch
// plan.
type launchFlags struct {
	cdrom       string
	extras      []string
	bootCDROM   bool
	display     string
	network     netres.Mode
	emulator    string
	gracePeriod time.Duration
}

func (f *launchFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&f.cdrom, "cdrom", "",
		"removable medium image to attach")
	flags.StringArrayVar(&f.extras, "extra-disk", nil,
		"additional disk image, created if missing. Flag may be used more than once.")
	flags.BoolVar(&f.bootCDROM, "boot-cdrom", false,
		"boot from the removable medium instead of the primary disk")
	flags.StringVar(&f.display, "display", "",
		"force the emulator display backend, e.g. sdl, gtk, cocoa")
	flags.Var(&f.network, "network",
		"override the configured network mode: user, tap, passt")
	flags.StringVar(&f.emulator, "emulator", "",
		"emulator executable (default depends on the architecture: qemu-system-*)")
	flags.DurationVar(&f.gracePeriod, "grace-period", qemu.DefaultGracePeriod,
		"time the emulator has to exit on interrupt before it is killed")
}

func (f *launchFlags) options() (session.Options, error) {
	if f.bootCDROM && f.cdrom == "" {
		return session.Options{}, &ParseArgsError{err: ErrNoBootMedium}
	}

	opts := session.Options{
		Display: f.display,
		Network: f.network,
	}

	if f.bootCDROM {
		opts.Boot = arch.BootRemovable
	}

	if f.cdrom != "" {
		path, err := filepath.Abs(f.cdrom)
		if err != nil {
			return session.Options{}, &ParseArgsError{msg: "--cdrom", err: err}
		}

		opts.Removable = path
	}

	for _, extra := range f.extras {
		path, err := filepath.Abs(extra)
		if err != nil {
			return session.Options{}, &ParseArgsError{msg: "--extra-disk", err: err}
		}

		opts.Extras = append(opts.Extras, path)
	}

	return opts, nil
}

func (a *app) newSession(flags *launchFlags, logger *slog.Logger) *session.Session {
	return &session.Session{
		Network:     &netres.Manager{Logger: logger},
		Emulator:    flags.emulator,
		Stdin:       a.io.Stdin,
		Stdout:      a.io.Stdout,
		Stderr:      a.io.Stderr,
		GracePeriod: flags.gracePeriod,
		Logger:      logger,
	}
}

func (a *app) runCommand() *cobra.Command {
	var (
		flags  launchFlags
		debug  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Launch the machine described by a configuration unit",
		Long: "Launch the machine described by a configuration unit.\n\n" +
			"Missing disk images and the parameter block are created, the boot " +
			"device is encoded and the network resource is acquired. The exit " +
			"code is the one of the emulator. Failures before the emulator " +
			"started use exit codes 100 to 107. An emulator exiting with a " +
			"code in that range can only be told apart by the log output.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			opts.Debug = debug

			logger := a.logger.With(slog.String("session", uuid.NewString()))
			sess := a.newSession(&flags, logger)

			if dryRun {
				plan, err := sess.Prepare(args[0], opts)
				if err != nil {
					return err
				}

				return writePlan(a.io.Stdout, plan)
			}

			return sess.Run(cmd.Context(), args[0], opts)
		},
	}

	flags.register(cmd)

	cmd.Flags().BoolVar(&debug, "debug", false,
		"show the parameter block and command line and wait for Enter before launch")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"print the launch plan without changing anything")

	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	var flags launchFlags

	cmd := &cobra.Command{
		Use:   "check <config>",
		Short: "Validate a configuration unit and print the launch plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			plan, err := a.newSession(&flags, a.logger).Prepare(args[0], opts)
			if err != nil {
				return err
			}

			return writePlan(a.io.Stdout, plan)
		},
	}

	flags.register(cmd)

	return cmd
}
