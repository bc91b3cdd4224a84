// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

import (
	"errors"
	"fmt"
)

var errBus = errors.New("no ack")

type op struct {
	rw   byte
	addr uint8
	v    uint16
}

func (o op) String() string {
	return fmt.Sprintf("%c 0x%02x 0x%04x", o.rw, o.addr, o.v)
}

func r(addr uint8, v uint16) op { return op{'r', addr, v} }
func w(addr uint8, v uint16) op { return op{'w', addr, v} }

// bus records every transaction; fail[i] fails the i'th transaction.
type bus struct {
	regs map[uint8]uint16
	ops  []op
	fail map[int]error
}

func newBus() *bus {
	return &bus{
		regs: make(map[uint8]uint16),
		fail: make(map[int]error),
	}
}

func (b *bus) err() error {
	return b.fail[len(b.ops)-1]
}

func (b *bus) ReadWord(addr uint8) (uint16, error) {
	v := b.regs[addr]
	b.ops = append(b.ops, r(addr, v))
	if err := b.err(); err != nil {
		return 0, err
	}
	return v, nil
}

func (b *bus) WriteWord(addr uint8, v uint16) error {
	b.ops = append(b.ops, w(addr, v))
	if err := b.err(); err != nil {
		return err
	}
	b.regs[addr] = v
	return nil
}
