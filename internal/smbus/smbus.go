// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package smbus provides SMBus word and byte data access to the MCOM FPGA
// through the Linux /dev/i2c-BUS adapter.
package smbus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/platinasystems/i2c"
	"github.com/platinasystems/mcomwdt/internal/mcomfpga"
)

// PortConfig is the byte data register that selects the direction of the
// FPGA's port 0; PortOutput makes all of its pins outputs.
const (
	PortConfig uint8 = 0x06
	PortOutput uint8 = 0x00
)

var ErrNoDevice = errors.New("no such device")

type xfer func(rw i2c.RW, reg uint8, size i2c.SMBusSize, data *i2c.SMBusData) error

// Dev serializes SMBus transactions with one slave. The bus is opened for
// each transaction, the same as other i2c clients of the adapter.
type Dev struct {
	Bus  int
	Addr int

	mutex sync.Mutex
	do    xfer
}

// Open checks that BUS exists and ADDR is the watchdog's address.
func Open(bus, addr int) (*Dev, error) {
	if addr != mcomfpga.Address {
		return nil, fmt.Errorf("i2c-%d.%02x: wrong address: %w",
			bus, addr, ErrNoDevice)
	}
	b, err := i2c.New(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("i2c-%d.%02x: %w: %v",
			bus, addr, ErrNoDevice, err)
	}
	b.Close()
	d := &Dev{Bus: bus, Addr: addr}
	d.do = d.i2cDo
	return d, nil
}

func (d *Dev) i2cDo(rw i2c.RW, reg uint8, size i2c.SMBusSize, data *i2c.SMBusData) (err error) {
	var bus i2c.Bus

	err = bus.Open(d.Bus)
	if err != nil {
		return
	}
	defer bus.Close()

	err = bus.ForceSlaveAddress(d.Addr)
	if err != nil {
		return
	}

	err = bus.Do(rw, reg, size, data)
	return
}

func (d *Dev) xfer(rw i2c.RW, reg uint8, size i2c.SMBusSize, data *i2c.SMBusData) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	err := d.do(rw, reg, size, data)
	if err != nil {
		tag := "write"
		if rw == i2c.Read {
			tag = "read"
		}
		err = fmt.Errorf("i2c-%d.%02x: %s 0x%02x: %v",
			d.Bus, d.Addr, tag, reg, err)
	}
	return err
}

// SMBus words are little endian.
func getWord(data *i2c.SMBusData) uint16 {
	return uint16(data[1])<<8 | uint16(data[0])
}

func setWord(data *i2c.SMBusData, v uint16) {
	data[0] = uint8(v)
	data[1] = uint8(v >> 8)
}

func (d *Dev) ReadWord(reg uint8) (uint16, error) {
	var data i2c.SMBusData
	if err := d.xfer(i2c.Read, reg, i2c.WordData, &data); err != nil {
		return 0, err
	}
	return getWord(&data), nil
}

func (d *Dev) WriteWord(reg uint8, v uint16) error {
	var data i2c.SMBusData
	setWord(&data, v)
	return d.xfer(i2c.Write, reg, i2c.WordData, &data)
}

func (d *Dev) ReadByteData(reg uint8) (uint8, error) {
	var data i2c.SMBusData
	if err := d.xfer(i2c.Read, reg, i2c.ByteData, &data); err != nil {
		return 0, err
	}
	return data[0], nil
}

func (d *Dev) WriteByteData(reg uint8, v uint8) error {
	var data i2c.SMBusData
	data[0] = v
	return d.xfer(i2c.Write, reg, i2c.ByteData, &data)
}

// Probe reads Status/Control to see that the FPGA acknowledges word
// transfers.
func (d *Dev) Probe() error {
	if _, err := d.ReadWord(mcomfpga.StatusControlAddr); err != nil {
		return fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	return nil
}

// ConfigurePort sets port 0 of the FPGA as output.
func (d *Dev) ConfigurePort() error {
	return d.WriteByteData(PortConfig, PortOutput)
}
