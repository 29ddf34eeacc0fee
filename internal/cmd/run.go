// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aibor/emulaunch/internal/logging"
)

const (
	name = "emulaunch"

	defaultLogLevel  = "info"
	defaultLogFormat = string(logging.FormatText)
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// app holds the state shared by all sub commands of a single invocation.
type app struct {
	io IO

	logLevel  string
	logFormat string
	logger    *slog.Logger

	// ready is set once flags are parsed and logging is set up. Errors
	// before that are usage errors.
	ready bool
}

func (a *app) setup(*cobra.Command, []string) error {
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return &ParseArgsError{msg: "--log-level", err: err}
	}

	format, err := logging.ParseFormat(a.logFormat)
	if err != nil {
		return &ParseArgsError{msg: "--log-format", err: err}
	}

	a.logger = logging.New(a.io.Stderr, format, level)
	a.ready = true

	return nil
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               name,
		Short:             "Launch classic Macintosh machines in QEMU",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", defaultLogLevel,
		"log verbosity: debug, info, warning, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", defaultLogFormat,
		"log output format: text, json")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ParseArgsError{msg: "flag parse", err: err}
	})

	root.AddCommand(
		a.runCommand(),
		a.checkCommand(),
		a.pramCommand(),
		a.versionCommand(),
	)

	return root
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	a := &app{
		io:     cfg,
		logger: logging.New(cfg.Stderr, logging.FormatText, slog.LevelInfo),
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && !a.ready {
		err = &ParseArgsError{err: err}
	}

	return handleRunError(err, a.logger)
}
