// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches the commands of a multicall program by the name of
// its first argument, e.g. /usr/bin/mcomfpga linked to /usr/bin/goes-mcom.
package goes

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/mcomwdt/cmd"
)

const InstallName = "/usr/bin/goes-mcom"

// Stdout receives helper output.
var Stdout io.Writer = os.Stdout

type ByName map[string]cmd.Cmd

// Plot commands on map.
func (byName ByName) Plot(cmds ...cmd.Cmd) {
	for _, v := range cmds {
		name := v.String()
		if _, found := byName[name]; found {
			panic(fmt.Errorf("%s: duplicate", name))
		}
		if _, found := cmd.Helpers[name]; found {
			panic(fmt.Errorf("%s: reserved", name))
		}
		byName[name] = v
	}
}

// Names returns the sorted names of the commands that aren't hidden.
func (byName ByName) Names() []string {
	names := make([]string, 0, len(byName))
	for name, v := range byName {
		if !cmd.WhatKind(v).IsHidden() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Main runs the arg[0] command in the current context.
// When run w/o args this uses os.Args.
//
// If the args has "-h", "-help", or "--help", this prints the command usage.
// Similarly "-apropos", "-man", and "-usage" print the respective text.
//
// A daemon command is closed by SIGTERM or SIGINT; its Main is expected to
// return once closed.
func (byName ByName) Main(args ...string) error {
	if len(args) == 0 {
		args = os.Args
		if len(args) == 0 {
			return nil
		}
	}
	if base := filepath.Base(args[0]); base != ProgBase() {
		if _, found := byName[base]; found {
			args[0] = base
		} else {
			args = args[1:]
		}
	} else {
		args = args[1:]
	}
	if len(args) == 0 {
		return byName.apropos()
	}

	cmd.Swap(args)
	name := args[0]
	flag, args := flags.New(args[1:], "-h", "-help", "--help")
	if flag.ByName["-h"] || flag.ByName["-help"] || flag.ByName["--help"] {
		args = []string{name}
		name = "help"
	}

	switch name {
	case "apropos":
		return byName.apropos(args...)
	case "help", "usage":
		return byName.usage(args...)
	case "man":
		return byName.man(args...)
	}

	v := byName[name]
	if v == nil {
		return fmt.Errorf("%s: command not found", name)
	}
	kind := cmd.WhatKind(v)
	if kind.IsDaemon() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(sig)
		done := make(chan struct{})
		defer close(done)
		go wait(v, sig, done)
	}
	err := v.Main(args...)
	if err == io.EOF {
		err = nil
	}
	if err != nil && !kind.IsDaemon() {
		err = fmt.Errorf("%s: %v", name, err)
	}
	return err
}

func wait(v cmd.Cmd, sig <-chan os.Signal, done <-chan struct{}) {
	select {
	case <-sig:
		if closer, found := v.(io.Closer); found {
			if err := closer.Close(); err != nil {
				fmt.Fprint(os.Stderr, v, ": ", err, "\n")
			}
		}
	case <-done:
	}
}

func (byName ByName) lookup(names []string) ([]cmd.Cmd, error) {
	if len(names) == 0 {
		names = byName.Names()
	}
	cmds := make([]cmd.Cmd, 0, len(names))
	for _, name := range names {
		v, found := byName[name]
		if !found {
			return nil, fmt.Errorf("%s: command not found", name)
		}
		cmds = append(cmds, v)
	}
	return cmds, nil
}

func (byName ByName) apropos(names ...string) error {
	cmds, err := byName.lookup(names)
	if err != nil {
		return err
	}
	n := 0
	for _, v := range cmds {
		if l := len(v.String()); l > n {
			n = l
		}
	}
	for _, v := range cmds {
		fmt.Fprintf(Stdout, "%-*s - %s\n", n, v, v.Apropos())
	}
	return nil
}

func (byName ByName) usage(names ...string) error {
	cmds, err := byName.lookup(names)
	if err != nil {
		return err
	}
	for _, v := range cmds {
		fmt.Fprint(Stdout, "usage:\t", v.Usage(), "\n")
	}
	return nil
}

func (byName ByName) man(names ...string) error {
	cmds, err := byName.lookup(names)
	if err != nil {
		return err
	}
	for i, v := range cmds {
		if i > 0 {
			fmt.Fprintln(Stdout)
		}
		fmt.Fprint(Stdout, "NAME\n\t", v, " - ", v.Apropos(), "\n\n",
			"SYNOPSIS\n\t", v.Usage(), "\n")
		if s := cmd.Man(v); s != v.Apropos().String() {
			fmt.Fprint(Stdout, "\n", s, "\n")
		}
	}
	return nil
}
