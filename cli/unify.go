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

package cli

import (
	"context"
	"fmt"

	cliUtil "github.com/purpleidea/tc/cli/util"
	"github.com/purpleidea/tc/util/errwrap"
	"github.com/purpleidea/tc/util/recwatch"
	"github.com/purpleidea/tc/yamlproblem"

	"github.com/sanity-io/litter"
)

// UnifyArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the common flags for the `unify` subcommand.
type UnifyArgs struct {
	Watch bool `arg:"--watch" help:"run again whenever the files change"`

	Dump bool `arg:"--dump" help:"print the final context of each problem"`

	Paths []string `arg:"positional,required" help:"problem files or directories of them"`
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This information is used so that the top-level parser can return
// usage or help information if no subcommand activates. This particular Run is
// the run for the main `unify` subcommand.
func (obj *UnifyArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	logf := data.Logf("unify")
	runner := &yamlproblem.Runner{
		Debug: data.Flags.Debug,
		Logf:  logf,
	}

	if !obj.Watch {
		return true, obj.runAll(data, runner)
	}

	watcher, err := recwatch.NewRecWatcher(obj.Paths, recwatch.Debug(data.Flags.Debug), recwatch.Logf(data.Logf("recwatch")))
	if err != nil {
		return false, errwrap.Wrapf(err, "can't watch")
	}
	defer watcher.Close()

	for {
		// a failed run doesn't stop us from watching
		if err := obj.runAll(data, runner); err != nil {
			fmt.Fprintf(data.Stdout, "error: %s\n", err)
		}

		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return true, nil
			}
			if err := event.Error; err != nil {
				return false, errwrap.Wrapf(err, "watcher failed")
			}
			logf("changed: %s", event.Body.Name)

		case <-ctx.Done():
			return true, nil
		}
	}
}

// runAll runs every problem file once, and prints the results.
func (obj *UnifyArgs) runAll(data *cliUtil.Data, runner *yamlproblem.Runner) error {
	files, err := yamlproblem.FindFiles(data.Fs, obj.Paths)
	if err != nil {
		return err
	}

	var reterr error
	for _, file := range files {
		pf, err := yamlproblem.ParseFile(data.Fs, file)
		if err != nil {
			reterr = errwrap.Append(reterr, err)
			continue
		}
		results, err := runner.Run(pf)
		reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "%s", file))

		fmt.Fprintf(data.Stdout, "%s:\n%s\n", file, yamlproblem.Summary(results))
		if !obj.Dump {
			continue
		}
		for _, result := range results {
			fmt.Fprintf(data.Stdout, "%s: %s\n", result.Name, dump(result))
		}
	}
	return reterr
}

// dump returns the final context of the result for humans to read.
func dump(result *yamlproblem.Result) string {
	entries := []string{}
	for _, entry := range result.Entries {
		entries = append(entries, entry.String())
	}
	options := litter.Options{
		HidePrivateFields: true,
		Compact:           true,
		StripPackageNames: true,
	}
	return options.Sdump(entries)
}
