// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/sys/unix"
)

// helperEnv makes the test binary act as fake emulator.
const helperEnv = "EMULAUNCH_QEMU_HELPER"

func TestMain(m *testing.M) {
	if behavior, ok := os.LookupEnv(helperEnv); ok {
		os.Exit(fakeEmulator(behavior, os.Args[1:]))
	}

	goleak.VerifyTestMain(m)
}

func fakeEmulator(behavior string, args []string) int {
	fmt.Fprintln(os.Stdout, strings.Join(args, " "))
	fmt.Fprintln(os.Stderr, "fake emulator:", behavior)

	switch behavior {
	case "echo":
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		fmt.Fprint(os.Stdout, line)
	case "hang":
		time.Sleep(time.Minute)
	case "stubborn":
		signal.Ignore(unix.SIGTERM)
		time.Sleep(time.Minute)
	default:
		code, err := strconv.Atoi(behavior)
		if err == nil {
			return code
		}
	}

	return 0
}
