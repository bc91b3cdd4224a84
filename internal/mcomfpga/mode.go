// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

type Mode uint16

const (
	Start  Mode = 0x01
	Normal Mode = 0x02
	Down   Mode = 0x04
)

const (
	DisableMask = 0x7f
	ModeMask    = 0xf8

	modeBits = Start | Normal | Down
)

func (m Mode) String() string {
	switch m {
	case Start:
		return "start"
	case Normal:
		return "normal"
	case Down:
		return "down"
	case 0:
		return "none"
	}
	return "invalid"
}

func (m Mode) valid() bool {
	return m == Start || m == Normal || m == Down
}

// ParseMode is the inverse of Mode.String for the three valid modes.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Start, Normal, Down} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, &ValidationError{"mode " + s, ErrInvalidMode}
}

// modeWord replaces the mode bits of the low byte and clears its disable
// bit; the high byte is carried through.
func modeWord(cur uint16, m Mode) uint16 {
	lo := (cur & 0xff) & DisableMask & ModeMask
	return cur&0xff00 | lo | uint16(m)
}

// SetMode does a read-modify-write of Status/Control. Nothing is written if
// the read fails.
func (c *Controller) SetMode(m Mode) error {
	if !m.valid() {
		return &ValidationError{"mode " + m.String(), ErrInvalidMode}
	}
	cur, err := c.read(StatusControl)
	if err != nil {
		return err
	}
	return c.write(StatusControl, modeWord(cur, m))
}

func (c *Controller) Start() error { return c.SetMode(Start) }
func (c *Controller) Stop() error  { return c.SetMode(Down) }

// Mode reads Status/Control and returns its mode bits.
func (c *Controller) Mode() (Mode, error) {
	v, err := c.read(StatusControl)
	if err != nil {
		return 0, err
	}
	return Mode(v) & modeBits, nil
}
