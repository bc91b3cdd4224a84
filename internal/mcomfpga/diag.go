// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

import (
	"fmt"
	"strconv"
	"strings"
)

func lookup(name string) (Register, error) {
	r, found := Lookup(name)
	if !found {
		return r, &ValidationError{name, ErrUnknownRegister}
	}
	return r, nil
}

// ReadRaw reads the named register.
func (c *Controller) ReadRaw(name string) (uint16, error) {
	r, err := lookup(name)
	if err != nil {
		return 0, err
	}
	if !r.Readable() {
		return 0, &ValidationError{name, ErrNotReadable}
	}
	return c.read(r)
}

// WriteRaw writes the named register. A Status/Control value must have the
// disable bit clear and exactly one mode bit set. A write of Uptime updates
// the cached timeout, and any write of the kick register runs the whole kick
// sequence.
func (c *Controller) WriteRaw(name string, v uint16) error {
	r, err := lookup(name)
	if err != nil {
		return err
	}
	if !r.Writable() {
		return &ValidationError{name, ErrNotWritable}
	}
	switch r {
	case Uptime:
		return c.SetTimeout(uint32(v))
	case Kicker:
		return c.Kick()
	case StatusControl:
		if v&^DisableMask&0xff != 0 || !(Mode(v) & modeBits).valid() {
			return &ValidationError{name + " " + FormatWord(v),
				ErrInvalidMode}
		}
	}
	return c.write(r, v)
}

// FormatWord formats a register value as the device attributes do.
func FormatWord(v uint16) string { return fmt.Sprintf("0x%04x", v) }

// ParseWord parses a base 16 register value with or without 0x prefix.
func ParseWord(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	u, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%q: invalid value: %v", s, err)
	}
	return uint16(u), nil
}
