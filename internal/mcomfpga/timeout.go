// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

// MaxTimeout is the largest timeout, in seconds, that fits Uptime.
const MaxTimeout = 0xffff

// Timeout returns the last timeout confirmed by the device, in seconds.
func (c *Controller) Timeout() uint32 { return c.timeout }

// SetTimeout writes Uptime and caches the given seconds once the device has
// acknowledged the write.
func (c *Controller) SetTimeout(seconds uint32) error {
	if seconds > MaxTimeout {
		return &ValidationError{"timeout", ErrRange}
	}
	if err := c.write(Uptime, uint16(seconds)); err != nil {
		return err
	}
	c.timeout = seconds
	return nil
}

// ResolveTimeout establishes the initial timeout. A nonzero configured value
// is written to the device; zero adopts the value already in Uptime.
func (c *Controller) ResolveTimeout(configured uint32) error {
	if configured != 0 {
		if err := c.SetTimeout(configured); err != nil {
			return &InitError{err}
		}
		return nil
	}
	v, err := c.read(Uptime)
	if err != nil {
		return &InitError{err}
	}
	c.timeout = uint32(v)
	return nil
}
