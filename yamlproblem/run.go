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

package yamlproblem

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/purpleidea/tc/lang/infer"
	"github.com/purpleidea/tc/lang/parser"
	"github.com/purpleidea/tc/lang/types"
	"github.com/purpleidea/tc/lang/unification"
	"github.com/purpleidea/tc/util/errwrap"
)

// Result is what happened when a single problem was run.
type Result struct {
	Name string

	// Outcome is one of the Expect constants.
	Outcome string

	// Err is the error that caused the outcome, if it's not ok.
	Err error

	// Solved maps each declared variable to the type it resolves to.
	Solved map[string]string

	// Types holds the type of each inferred expression, in order.
	Types []string

	// Entries is the final context, oldest entry first.
	Entries []*types.Entry
}

// String returns a one line summary of this result.
func (obj *Result) String() string {
	if obj.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", obj.Name, obj.Outcome, obj.Err)
	}
	return fmt.Sprintf("%s: %s", obj.Name, obj.Outcome)
}

// Runner runs problems, each on a fresh context.
type Runner struct {
	Debug bool
	Logf  func(format string, v ...interface{})
}

// Run executes every problem in the file. It returns the result of each one
// that could be run. Problems whose outcome is not what they expect, and those
// which are malformed, are collected into the returned error.
func (obj *Runner) Run(pf *ProblemFile) ([]*Result, error) {
	var reterr error
	results := []*Result{}
	for _, p := range pf.Problems {
		result, err := obj.runOne(p)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "problem %s", p.Name))
			continue
		}
		results = append(results, result)

		if result.Outcome != p.Expect {
			e := fmt.Errorf("problem %s: expected %s, got %s", p.Name, p.Expect, result.Outcome)
			if result.Err != nil {
				e = errwrap.Wrapf(result.Err, "problem %s: expected %s, got %s", p.Name, p.Expect, result.Outcome)
			}
			reterr = errwrap.Append(reterr, e)
			continue
		}
		if result.Outcome != ExpectOK {
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(p.Solved)) {
			if got, exp := result.Solved[name], p.Solved[name]; got != exp {
				reterr = errwrap.Append(reterr, fmt.Errorf("problem %s: expected %s to be %s, got %s", p.Name, name, exp, got))
			}
		}
	}
	return results, reterr
}

// runOne runs a single problem. An error is only returned if the problem is
// malformed, type errors end up in the result instead.
func (obj *Runner) runOne(p *Problem) (*Result, error) {
	ctx := unification.NewContext()
	ctx.Debug = obj.Debug
	ctx.Logf = func(format string, v ...interface{}) {
		if obj.Logf != nil {
			obj.Logf(p.Name+": "+format, v...)
		}
	}

	names := make(map[string]types.TyName) // declared variables
	display := make(map[types.TyName]string)
	lookup := func(s string) (types.TyName, error) {
		name, exists := names[s]
		if !exists {
			return types.TyName{}, fmt.Errorf("undeclared variable: ?%s", s)
		}
		return name, nil
	}
	parse := func(s string) (*types.Type, error) {
		typ, err := types.ParseType(s, lookup)
		if err != nil {
			return nil, errwrap.Wrapf(err, "invalid type `%s`", s)
		}
		return typ, nil
	}

	for _, v := range p.Vars {
		var decl *types.Type
		if v.Type != "" {
			typ, err := parse(v.Type)
			if err != nil {
				return nil, err
			}
			decl = typ
		}
		name := ctx.Fresh(decl)
		names[v.Name] = name
		display[name] = "?" + v.Name
	}

	result := &Result{
		Name:    p.Name,
		Outcome: ExpectOK,
		Solved:  make(map[string]string),
		Types:   []string{},
	}

	err := func() error {
		for _, pair := range p.Unify {
			lhs, err := parse(pair.Lhs)
			if err != nil {
				return err
			}
			rhs, err := parse(pair.Rhs)
			if err != nil {
				return err
			}
			if err := ctx.Unify(lhs, rhs); err != nil {
				return &typeError{errwrap.Wrapf(err, "can't unify %s with %s", pair.Lhs, pair.Rhs)}
			}
		}

		if p.Builtins {
			if err := infer.BindBuiltins(ctx, infer.Builtins); err != nil {
				return err
			}
		}
		for _, code := range p.Exprs {
			expr, err := parser.LexParse(code)
			if err != nil {
				return errwrap.Wrapf(err, "can't parse `%s`", code)
			}
			typ, err := infer.Infer(ctx, expr)
			if err != nil {
				return &typeError{errwrap.Wrapf(err, "can't infer `%s`", code)}
			}
			result.Types = append(result.Types, typ.Rename(display))
		}
		return nil
	}()

	var te *typeError
	if err != nil && !errors.As(err, &te) {
		return nil, err // malformed
	}
	if err != nil {
		result.Err = te.err
		result.Outcome = outcome(te.err)
		if result.Outcome == "" {
			return nil, te.err // unexpected kind of failure
		}
	}

	for _, v := range p.Vars {
		result.Solved[v.Name] = ctx.Resolve(types.V(names[v.Name])).Rename(display)
	}
	result.Entries = ctx.Entries()
	return result, nil
}

// typeError marks an error as coming from the checker rather than from a
// malformed problem.
type typeError struct {
	err error
}

func (obj *typeError) Error() string { return obj.err.Error() }

func (obj *typeError) Unwrap() error { return obj.err }

// outcome classifies a type error, or returns empty if it's none of them.
func outcome(err error) string {
	switch {
	case errors.Is(err, unification.ErrOccurs):
		return ExpectOccurs
	case errors.Is(err, unification.ErrMismatch):
		return ExpectMismatch
	case errors.Is(err, unification.ErrUnbound):
		return ExpectUnbound
	}
	return ""
}

// Summary returns a short report of the results, one line each.
func Summary(results []*Result) string {
	s := []string{}
	for _, result := range results {
		s = append(s, result.String())
	}
	return strings.Join(s, "\n")
}
