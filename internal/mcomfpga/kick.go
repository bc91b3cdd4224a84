// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

// KickStep is one write of the timer reset pulse.
type KickStep uint16

const (
	KickDeasserted KickStep = 0x0000
	KickAsserted   KickStep = 0x0100
)

func (s KickStep) String() string {
	if s == KickAsserted {
		return "asserted"
	}
	return "deasserted"
}

// The FPGA resets its timer on the low-high-low edge of the kick bit.
var kickSequence = [...]KickStep{
	KickDeasserted,
	KickAsserted,
	KickDeasserted,
}

// KickSequence returns the steps written by Kick, in order.
func KickSequence() []KickStep {
	return append([]KickStep(nil), kickSequence[:]...)
}

// Kick resets the watchdog timer. It returns the first failed write; the
// caller must retry the whole sequence before the timeout elapses.
func (c *Controller) Kick() error {
	for _, step := range kickSequence {
		if err := c.write(Kicker, uint16(step)); err != nil {
			return err
		}
	}
	return nil
}
