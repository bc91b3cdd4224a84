// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"os"
	"path/filepath"
)

var prog, progbase string

// Prog returns the path of the running executable.
func Prog() string {
	if len(prog) == 0 {
		var err error
		prog, err = os.Executable()
		if err != nil {
			prog = InstallName
		}
	}
	return prog
}

func ProgBase() string {
	if len(progbase) == 0 {
		progbase = filepath.Base(Prog())
	}
	return progbase
}
