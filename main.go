// Tc
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/purpleidea/tc/cli"
	cliUtil "github.com/purpleidea/tc/cli/util"
)

// These constants are some global variables that are used throughout the code.
const (
	tagline = "context-based type unification"
	debug   = false // add additional log messages
)

// set at compile time
var (
	program string
	version string
)

//go:embed COPYING
var copying string

func main() {
	if program == "" {
		program = "tc"
	}
	if version == "" {
		version = "devel"
	}
	cliUtil.LogSetup(debug)

	data := &cliUtil.Data{
		Program: program,
		Version: version,
		Copying: copying,
		Tagline: tagline,
		Flags: cliUtil.Flags{
			Debug: debug,
			Logf: func(format string, v ...interface{}) {
				log.Printf("main: "+format, v...)
			},
		},
		Args: os.Args,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// install the exit signal handler
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt) // catch ^C
		signal.Notify(signals, syscall.SIGTERM)

		select {
		case sig := <-signals: // any signal will do
			if sig == os.Interrupt {
				log.Println("interrupted by ^C")
			} else {
				log.Println("interrupted by signal")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := cli.CLI(ctx, data); err != nil {
		fmt.Println(err)
		os.Exit(1)
		return
	}
}
