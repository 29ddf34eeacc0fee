// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
)

// helperEnv makes the test binary act as fake emulator.
const helperEnv = "EMULAUNCH_CMD_HELPER"

func TestMain(m *testing.M) {
	if behavior, ok := os.LookupEnv(helperEnv); ok {
		fmt.Fprintln(os.Stdout, strings.Join(os.Args[1:], " "))

		code, _ := strconv.Atoi(behavior)
		os.Exit(code)
	}

	os.Exit(m.Run())
}
