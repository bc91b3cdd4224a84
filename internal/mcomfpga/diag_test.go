// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

import (
	"errors"
	"reflect"
	"testing"
)

func TestReadRawTemperature(t *testing.T) {
	b := newBus()
	b.regs[TemperatureAddr] = 0x0123
	v, err := Bind(b).ReadRaw("temperature")
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x0123 {
		t.Errorf("wrong: 0x%04x", v)
	}
	if !reflect.DeepEqual(b.ops, []op{r(TemperatureAddr, 0x0123)}) {
		t.Error("wrong:", b.ops)
	}
}

func TestWriteRawReadOnly(t *testing.T) {
	for _, name := range []string{"temperature", "mvb_status"} {
		b := newBus()
		err := Bind(b).WriteRaw(name, 0x1234)
		if !errors.Is(err, ErrNotWritable) {
			t.Error(name, "wrong:", err)
		}
		if len(b.ops) != 0 {
			t.Error(name, "unexpected bus traffic:", b.ops)
		}
	}
}

func TestReadRawWriteOnly(t *testing.T) {
	for _, name := range []string{"kick", "peripheral_reset"} {
		b := newBus()
		_, err := Bind(b).ReadRaw(name)
		if !errors.Is(err, ErrNotReadable) {
			t.Error(name, "wrong:", err)
		}
		if len(b.ops) != 0 {
			t.Error(name, "unexpected bus traffic:", b.ops)
		}
	}
}

func TestRawUnknownRegister(t *testing.T) {
	b := newBus()
	c := Bind(b)
	if _, err := c.ReadRaw("status_controll"); !errors.Is(err, ErrUnknownRegister) {
		t.Error("wrong:", err)
	}
	if err := c.WriteRaw("", 0); !errors.Is(err, ErrUnknownRegister) {
		t.Error("wrong:", err)
	}
	if len(b.ops) != 0 {
		t.Error("unexpected bus traffic:", b.ops)
	}
}

func TestRawReadWrite(t *testing.T) {
	for _, reg := range Registers() {
		if reg.Access != ReadWrite || reg == StatusControl {
			continue
		}
		b := newBus()
		c := Bind(b)
		if err := c.WriteRaw(reg.Name, 0xbeef); err != nil {
			t.Fatal(reg.Name, err)
		}
		v, err := c.ReadRaw(reg.Name)
		if err != nil {
			t.Fatal(reg.Name, err)
		}
		if v != 0xbeef {
			t.Errorf("%s: wrong: 0x%04x", reg.Name, v)
		}
		if !reflect.DeepEqual(b.ops, []op{
			w(reg.Addr, 0xbeef),
			r(reg.Addr, 0xbeef),
		}) {
			t.Error(reg.Name, "wrong:", b.ops)
		}
	}
}

func TestWriteRawUptime(t *testing.T) {
	b := newBus()
	c := Bind(b)
	if err := c.WriteRaw("uptime", 0x003c); err != nil {
		t.Fatal(err)
	}
	if c.Timeout() != 60 {
		t.Error("wrong:", c.Timeout())
	}
	b.fail[1] = errBus
	if err := c.WriteRaw("uptime", 0x0078); !errors.Is(err, errBus) {
		t.Fatal("wrong:", err)
	}
	if c.Timeout() != 60 {
		t.Error("wrong:", c.Timeout())
	}
}

func TestWriteRawStatusControl(t *testing.T) {
	for _, v := range []uint16{0x0087, 0x0003, 0x0000, 0x0081, 0x00f8} {
		b := newBus()
		err := Bind(b).WriteRaw("status_control", v)
		if !errors.Is(err, ErrInvalidMode) {
			t.Errorf("0x%04x: wrong: %v", v, err)
		}
		if len(b.ops) != 0 {
			t.Errorf("0x%04x: unexpected bus traffic: %v", v, b.ops)
		}
	}
	b := newBus()
	if err := Bind(b).WriteRaw("status_control", 0x4072); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(b.ops, []op{w(StatusControlAddr, 0x4072)}) {
		t.Error("wrong:", b.ops)
	}
}

func TestWriteRawKick(t *testing.T) {
	b := newBus()
	if err := Bind(b).WriteRaw("kick", 0x0100); err != nil {
		t.Fatal(err)
	}
	want := []op{
		w(KickAddr, 0x0000),
		w(KickAddr, 0x0100),
		w(KickAddr, 0x0000),
	}
	if !reflect.DeepEqual(b.ops, want) {
		t.Error("wrong:", b.ops)
	}
}

func TestWriteRawPeripheralReset(t *testing.T) {
	b := newBus()
	if err := Bind(b).WriteRaw("peripheral_reset", 0x0001); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(b.ops, []op{w(PeripheralResetAddr, 0x0001)}) {
		t.Error("wrong:", b.ops)
	}
}

func TestFormatWord(t *testing.T) {
	for v, s := range map[uint16]string{
		0:      "0x0000",
		0x2a:   "0x002a",
		0xbeef: "0xbeef",
	} {
		if FormatWord(v) != s {
			t.Error("wrong:", FormatWord(v))
		}
	}
}

func TestParseWord(t *testing.T) {
	for s, v := range map[string]uint16{
		"0x0000":   0,
		"2a":       0x2a,
		"0XBEEF":   0xbeef,
		"ffff\n":   0xffff,
		" 0x0100 ": 0x100,
	} {
		got, err := ParseWord(s)
		if err != nil || got != v {
			t.Errorf("%q: wrong: 0x%04x %v", s, got, err)
		}
	}
	for _, s := range []string{"", "0x", "10000", "-1", "xyz"} {
		if _, err := ParseWord(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}
