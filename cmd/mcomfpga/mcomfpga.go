// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mcomfpga provides the interactive command for the MCOM FPGA
// watchdog.
package mcomfpga

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/log"
	"github.com/platinasystems/mcomwdt/internal/mcomfpga"
	"github.com/platinasystems/mcomwdt/internal/smbus"
	"github.com/platinasystems/mcomwdt/lang"
	"github.com/platinasystems/parms"
)

const Name = "mcomfpga"

type Command struct {
	// Open returns the transport at BUS, ADDR; nil uses /dev/i2c-BUS.
	Open func(bus, addr int) (mcomfpga.Transport, error)

	w io.Writer
}

func (*Command) String() string { return Name }

func (*Command) Usage() string {
	return Name + " [-bus N] [-addr A] [show | start | stop | kick |\n" +
		"\tmode [MODE] | timeout [SECONDS] | REGISTER [VALUE]]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "MCOM FPGA watchdog control",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `DESCRIPTION
	Show, arm, disarm, kick and configure the MCOM FPGA watchdog on
	/dev/i2c-N at SMBus address 0x3c.

	show	print identity, mode, timeout and every readable register
	start	arm the watchdog
	stop	disarm the watchdog
	kick	pet the watchdog once
	mode	print or set the mode: start, normal or down
	timeout	print or set the timeout in seconds, 0 to 65535

	A REGISTER name prints or sets that register. Values are
	hexadecimal words, e.g. 0x001e.

OPTIONS
	-bus N	i2c bus number, default 0
	-addr A	slave address, default 0x3c

REGISTERS
	status_control disable_ubs uptime normaltime downtime ubstime
	peripheral_reset windowtime kick temperature mvb_status mvb_ctrl

EXAMPLES
	mcomfpga timeout 60
	mcomfpga -bus 1 temperature`,
	}
}

func smbusOpen(bus, addr int) (mcomfpga.Transport, error) {
	d, err := smbus.Open(bus, addr)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Command) Main(args ...string) error {
	parm, args := parms.New(args, "-bus", "-addr")
	bus, addr := 0, mcomfpga.Address
	if s := parm.ByName["-bus"]; len(s) > 0 {
		u, err := strconv.ParseUint(s, 0, 8)
		if err != nil {
			return fmt.Errorf("-bus: %v", err)
		}
		bus = int(u)
	}
	if s := parm.ByName["-addr"]; len(s) > 0 {
		u, err := strconv.ParseUint(s, 0, 7)
		if err != nil {
			return fmt.Errorf("-addr: %v", err)
		}
		addr = int(u)
	}
	if len(args) == 0 {
		args = []string{"show"}
	}

	open := c.Open
	if open == nil {
		open = smbusOpen
	}
	if c.w == nil {
		c.w = os.Stdout
	}
	t, err := open(bus, addr)
	if err != nil {
		return err
	}
	ctl := mcomfpga.Bind(t)

	switch args[0] {
	case "show":
		if len(args) > 1 {
			return fmt.Errorf("%v: unexpected", args[1:])
		}
		return c.show(ctl)
	case "start", "stop", "kick":
		if len(args) > 1 {
			return fmt.Errorf("%v: unexpected", args[1:])
		}
		return c.do(ctl, args[0])
	case "mode":
		return c.mode(ctl, args[1:])
	case "timeout":
		return c.timeout(ctl, args[1:])
	}
	return c.register(ctl, args[0], args[1:])
}

func (c *Command) do(ctl *mcomfpga.Controller, op string) error {
	var err error
	switch op {
	case "start":
		err = ctl.Start()
	case "stop":
		err = ctl.Stop()
	case "kick":
		return ctl.Kick()
	}
	if err == nil {
		log.Print("info", "watchdog ", op)
	}
	return err
}

func (c *Command) show(ctl *mcomfpga.Controller) error {
	m, err := ctl.Mode()
	if err != nil {
		return err
	}
	timeout, err := ctl.ReadRaw(mcomfpga.Uptime.Name)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.w, "identity:", mcomfpga.Identity)
	fmt.Fprintln(c.w, "options:", mcomfpga.FormatWord(mcomfpga.Options))
	fmt.Fprintln(c.w, "mode:", m)
	fmt.Fprintln(c.w, "timeout.units.s:", timeout)
	for _, r := range mcomfpga.Registers() {
		if !r.Readable() {
			continue
		}
		v, err := ctl.ReadRaw(r.Name)
		if err != nil {
			return err
		}
		fmt.Fprint(c.w, r.Name, ": ", mcomfpga.FormatWord(v), "\n")
	}
	return nil
}

func (c *Command) mode(ctl *mcomfpga.Controller, args []string) error {
	switch len(args) {
	case 0:
		m, err := ctl.Mode()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.w, m)
		return nil
	case 1:
		m, err := mcomfpga.ParseMode(args[0])
		if err != nil {
			return err
		}
		if err = ctl.SetMode(m); err == nil {
			log.Print("info", "watchdog mode ", m)
		}
		return err
	}
	return fmt.Errorf("%v: unexpected", args[1:])
}

func (c *Command) timeout(ctl *mcomfpga.Controller, args []string) error {
	switch len(args) {
	case 0:
		v, err := ctl.ReadRaw(mcomfpga.Uptime.Name)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.w, v)
		return nil
	case 1:
		u, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %v", args[0], err)
		}
		if err = ctl.SetTimeout(uint32(u)); err == nil {
			log.Print("info", "watchdog timeout set to ", u, "s")
		}
		return err
	}
	return fmt.Errorf("%v: unexpected", args[1:])
}

func (c *Command) register(ctl *mcomfpga.Controller, name string, args []string) error {
	switch len(args) {
	case 0:
		v, err := ctl.ReadRaw(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.w, mcomfpga.FormatWord(v))
		return nil
	case 1:
		v, err := mcomfpga.ParseWord(args[0])
		if err != nil {
			return err
		}
		return ctl.WriteRaw(name, v)
	}
	return fmt.Errorf("%v: unexpected", args[1:])
}
