// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

// Register addresses (SMBus command byte) of the watchdog FPGA. All
// registers are 16 bits wide.
const (
	StatusControlAddr   uint8 = 0x00
	DisableUbsAddr      uint8 = 0x12
	UptimeAddr          uint8 = 0x20
	NormalTimeAddr      uint8 = 0x22
	DownTimeAddr        uint8 = 0x24
	UbsTimeAddr         uint8 = 0x26
	PeripheralResetAddr uint8 = 0x28
	WindowTimeAddr      uint8 = 0x2c
	KickAddr            uint8 = 0x2e
	TemperatureAddr     uint8 = 0x50
	MvbStatusAddr       uint8 = 0x90
	MvbCtrlAddr         uint8 = 0x92
)

type Access uint8

const (
	ReadOnly Access = 1 << iota
	WriteOnly
	ReadWrite = ReadOnly | WriteOnly
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "ro"
	case WriteOnly:
		return "wo"
	case ReadWrite:
		return "rw"
	}
	return "invalid"
}

type Register struct {
	Name   string
	Addr   uint8
	Access Access
}

func (r Register) Readable() bool { return r.Access&ReadOnly == ReadOnly }
func (r Register) Writable() bool { return r.Access&WriteOnly == WriteOnly }

// Memory map
var (
	StatusControl   = Register{"status_control", StatusControlAddr, ReadWrite}
	DisableUbs      = Register{"disable_ubs", DisableUbsAddr, ReadWrite}
	Uptime          = Register{"uptime", UptimeAddr, ReadWrite}
	NormalTime      = Register{"normaltime", NormalTimeAddr, ReadWrite}
	DownTime        = Register{"downtime", DownTimeAddr, ReadWrite}
	UbsTime         = Register{"ubstime", UbsTimeAddr, ReadWrite}
	PeripheralReset = Register{"peripheral_reset", PeripheralResetAddr, WriteOnly}
	WindowTime      = Register{"windowtime", WindowTimeAddr, ReadWrite}
	Kicker          = Register{"kick", KickAddr, WriteOnly}
	Temperature     = Register{"temperature", TemperatureAddr, ReadOnly}
	MvbStatus       = Register{"mvb_status", MvbStatusAddr, ReadOnly}
	MvbCtrl         = Register{"mvb_ctrl", MvbCtrlAddr, ReadWrite}
)

// in address order
var registers = []Register{
	StatusControl,
	DisableUbs,
	Uptime,
	NormalTime,
	DownTime,
	UbsTime,
	PeripheralReset,
	WindowTime,
	Kicker,
	Temperature,
	MvbStatus,
	MvbCtrl,
}

var registerByName = func() map[string]Register {
	m := make(map[string]Register, len(registers))
	for _, r := range registers {
		m[r.Name] = r
	}
	return m
}()

// Lookup returns the named register.
func Lookup(name string) (Register, bool) {
	r, found := registerByName[name]
	return r, found
}

// Registers returns a copy of the register map in address order.
func Registers() []Register {
	return append([]Register(nil), registers...)
}
