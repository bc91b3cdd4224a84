// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/platinasystems/mcomwdt/cmd"
	"github.com/platinasystems/mcomwdt/lang"
)

type echo struct{ args []string }

func (*echo) String() string { return "echo" }
func (*echo) Usage() string  { return "echo [ARG]..." }
func (*echo) Apropos() lang.Alt {
	return lang.Alt{lang.EnUS: "print arguments"}
}

func (c *echo) Main(args ...string) error {
	c.args = args
	return nil
}

type fail struct{}

func (fail) String() string       { return "fail" }
func (fail) Usage() string        { return "fail" }
func (fail) Apropos() lang.Alt    { return lang.Alt{lang.EnUS: "fail"} }
func (fail) Kind() cmd.Kind       { return cmd.Hidden }
func (fail) Main(...string) error { return errors.New("oops") }

func plot() (ByName, *echo, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	Stdout = buf
	e := new(echo)
	byName := make(ByName)
	byName.Plot(e, fail{})
	return byName, e, buf
}

func TestDispatch(t *testing.T) {
	byName, e, _ := plot()
	if err := byName.Main("goes-mcom", "echo", "a", "b"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e.args, []string{"a", "b"}) {
		t.Error("wrong:", e.args)
	}
	if err := byName.Main("/usr/bin/echo", "c"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e.args, []string{"c"}) {
		t.Error("wrong:", e.args)
	}
}

func TestDispatchErrors(t *testing.T) {
	byName, _, _ := plot()
	err := byName.Main("goes-mcom", "fail")
	if err == nil || err.Error() != "fail: oops" {
		t.Error("wrong:", err)
	}
	err = byName.Main("goes-mcom", "nope")
	if err == nil || err.Error() != "nope: command not found" {
		t.Error("wrong:", err)
	}
}

func TestHelpers(t *testing.T) {
	byName, e, buf := plot()
	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"goes-mcom"}, "echo - print arguments\n"},
		{[]string{"goes-mcom", "echo", "-usage"}, "usage:\techo [ARG]...\n"},
		{[]string{"goes-mcom", "echo", "-h"}, "usage:\techo [ARG]...\n"},
		{[]string{"goes-mcom", "echo", "x", "--help"}, "usage:\techo [ARG]...\n"},
		{[]string{"goes-mcom", "echo", "x", "-help"}, "usage:\techo [ARG]...\n"},
		{[]string{"goes-mcom", "-apropos", "fail"}, "fail - fail\n"},
	} {
		buf.Reset()
		if err := byName.Main(tc.args...); err != nil {
			t.Error(tc.args, err)
			continue
		}
		if s := buf.String(); s != tc.want {
			t.Errorf("%v: %q", tc.args, s)
		}
	}
	if e.args != nil {
		t.Error("echo ran:", e.args)
	}
	buf.Reset()
	if err := byName.Main("goes-mcom", "man", "echo"); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); !strings.HasPrefix(s, "NAME\n\techo - ") {
		t.Errorf("%q", s)
	}
}

func TestPlotDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	byName, e, _ := plot()
	byName.Plot(e)
}
