// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mcomfpga provides the register protocol of the Siemens MCOM FPGA
// watchdog.
//
// A Controller arms and disarms the watchdog, kicks it, manages its timeout
// and gives checked raw access to the remaining registers. It holds no
// lock; callers must serialize calls on a Controller. Releasing a
// Controller doesn't touch the hardware, the watchdog keeps running.
package mcomfpga

const (
	Identity = "MCOM FPGA Watchdog"

	// SMBus slave address of the FPGA
	Address = 0x3c
)

// Watchdog capabilities, as reported to the host watchdog framework.
const (
	OptionSetTimeout    = 0x0080
	OptionKeepAlivePing = 0x8000

	Options = OptionSetTimeout | OptionKeepAlivePing
)

// Transport does one word transaction on the device's bus.
type Transport interface {
	ReadWord(addr uint8) (uint16, error)
	WriteWord(addr uint8, v uint16) error
}

type Controller struct {
	t Transport

	// seconds, as last confirmed by the device
	timeout uint32
}

// Bind returns a Controller that borrows the given Transport.
func Bind(t Transport) *Controller {
	return &Controller{t: t}
}

func (c *Controller) read(r Register) (uint16, error) {
	v, err := c.t.ReadWord(r.Addr)
	if err != nil {
		return 0, &TransportError{"read", r, err}
	}
	return v, nil
}

func (c *Controller) write(r Register, v uint16) error {
	if err := c.t.WriteWord(r.Addr, v); err != nil {
		return &TransportError{"write", r, err}
	}
	return nil
}
