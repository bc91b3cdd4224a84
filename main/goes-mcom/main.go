// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the MCOM FPGA watchdog multicall program.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/mcomwdt/cmd/mcomfpga"
	"github.com/platinasystems/mcomwdt/cmd/mcomfpgad"
	"github.com/platinasystems/mcomwdt/internal/goes"
)

func main() {
	g := make(goes.ByName)
	g.Plot(
		new(mcomfpga.Command),
		new(mcomfpgad.Command),
	)
	if err := g.Main(os.Args...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
