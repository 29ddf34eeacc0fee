// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netres_test

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/sys/unix"
)

// helperEnv makes the test binary act as fake networking daemon.
const helperEnv = "EMULAUNCH_NETRES_HELPER"

// childLifetime of processes started by the fake daemon. They inherit its
// stderr.
const childLifetime = 3 * time.Second

func TestMain(m *testing.M) {
	if behavior, ok := os.LookupEnv(helperEnv); ok {
		if behavior == "child" {
			time.Sleep(childLifetime)
			os.Exit(0)
		}

		os.Exit(fakeDaemon(behavior, os.Args[1:]))
	}

	goleak.VerifyTestMain(m)
}

func fakeDaemon(behavior string, args []string) int {
	fmt.Fprintln(os.Stderr, "fake daemon:", behavior)

	if len(args) != 3 || args[0] != "--foreground" || args[1] != "--socket" {
		fmt.Fprintln(os.Stderr, "unexpected args:", args)
		return 2
	}

	socket := args[2]

	switch behavior {
	case "exit":
		return 3
	case "file":
		if err := os.WriteFile(socket, nil, 0o600); err != nil {
			return 1
		}
	case "serve", "stubborn", "forks", "forks-detached":
		listener, err := net.Listen("unix", socket)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer listener.Close()
	}

	if behavior == "forks" || behavior == "forks-detached" {
		err := startChild(behavior == "forks-detached")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if behavior == "stubborn" {
		signal.Ignore(unix.SIGTERM)
		time.Sleep(time.Minute)

		return 0
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, unix.SIGTERM)

	select {
	case <-signals:
	case <-time.After(time.Minute):
	}

	return 0
}

// startChild starts a process sharing the stderr of the fake daemon. If
// detached, it runs in its own process group.
func startChild(detached bool) error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(executable)
	cmd.Env = append(os.Environ(), helperEnv+"=child")
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: detached}

	return cmd.Start()
}

func helperBinary(t *testing.T, behavior string) string {
	t.Helper()

	t.Setenv(helperEnv, behavior)

	binary, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}

	return binary
}
