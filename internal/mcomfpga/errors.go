// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mcomfpga

import (
	"errors"
	"fmt"
)

var (
	ErrRange           = errors.New("out of range")
	ErrNotReadable     = errors.New("write only")
	ErrNotWritable     = errors.New("read only")
	ErrUnknownRegister = errors.New("unknown register")
	ErrInvalidMode     = errors.New("invalid mode")
)

// TransportError is a failed word transaction. It's returned as is to the
// caller; nothing in this package retries.
type TransportError struct {
	Op  string
	Reg Register
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mcomfpga: %s %s: %v", e.Op, e.Reg.Name, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a request rejected before any bus traffic.
type ValidationError struct {
	Name string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mcomfpga: %s: %v", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// InitError is a failure to bring the device into a known timer state.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("mcomfpga: init: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
