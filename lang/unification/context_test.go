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

//go:build !root

package unification

import (
	"errors"
	"fmt"
	"testing"

	"github.com/purpleidea/tc/lang/types"
	"github.com/purpleidea/tc/util"

	"github.com/sanity-io/litter"
)

func TestUnifyTable(t *testing.T) {
	type step struct {
		lhs string
		rhs string
		err error // expected error, nil means success
	}
	type test struct { // an individual test
		name  string
		decls []string // one variable each, in order; "" is unsolved
		steps []step
		ctx   string // the expected context when we're done
	}
	testCases := []test{}

	testCases = append(testCases, test{
		name:  "alias then occurs",
		decls: []string{"", ""},
		steps: []step{
			{"?1", "?2", nil},
			{"?1", "func(?2) ?2", ErrOccurs},
		},
		ctx: "[?1, ?2 := ?1]",
	})
	testCases = append(testCases, test{
		name:  "solved shape",
		decls: []string{"", "func(?1) ?1", ""},
		steps: []step{
			{"?2", "func(?3) ?3", nil},
			{"?1", "?3", nil},
		},
		ctx: "[?1, ?3 := ?1, ?2 := func(?1) ?1]",
	})
	testCases = append(testCases, test{
		name:  "reflexive",
		decls: []string{"", ""},
		steps: []step{
			{"func(?1) func(?2) ?1", "func(?1) func(?2) ?1", nil},
			{"?1", "?1", nil},
			{"int", "int", nil},
		},
		ctx: "[?1, ?2]",
	})
	testCases = append(testCases, test{
		name:  "direct occurs",
		decls: []string{""},
		steps: []step{
			{"?1", "func(?1) ?1", ErrOccurs},
		},
		ctx: "[?1]",
	})
	testCases = append(testCases, test{
		name:  "direct occurs on the right",
		decls: []string{""},
		steps: []step{
			{"func(int) ?1", "?1", ErrOccurs},
		},
		ctx: "[?1]",
	})
	testCases = append(testCases, test{
		name:  "dependencies move",
		decls: []string{"", "", ""},
		steps: []step{
			{"?1", "func(?2) ?3", nil},
		},
		ctx: "[?2, ?3, ?1 := func(?2) ?3]",
	})
	testCases = append(testCases, test{
		name:  "unrelated entries stay",
		decls: []string{"", "", "", ""},
		steps: []step{
			{"?1", "func(?2) ?2", nil},
		},
		ctx: "[?2, ?1 := func(?2) ?2, ?3, ?4]",
	})
	testCases = append(testCases, test{
		name:  "newer variable is solved",
		decls: []string{"", ""},
		steps: []step{
			{"?2", "?1", nil},
		},
		ctx: "[?1, ?2 := ?1]",
	})
	testCases = append(testCases, test{
		name:  "arrows",
		decls: []string{"", "", ""},
		steps: []step{
			{"func(?1) ?2", "func(int) func(?3) str", nil},
		},
		ctx: "[?1 := int, ?3, ?2 := func(?3) str]",
	})
	testCases = append(testCases, test{
		name:  "constructor mismatch",
		decls: []string{""},
		steps: []step{
			{"?1", "int", nil},
			{"?1", "str", ErrMismatch},
		},
		ctx: "[?1 := int]",
	})
	testCases = append(testCases, test{
		name:  "arrow against constructor",
		decls: []string{""},
		steps: []step{
			{"?1", "int", nil},
			{"?1", "func(bool) bool", ErrMismatch},
			{"func(int) int", "int", ErrMismatch},
		},
		ctx: "[?1 := int]",
	})
	testCases = append(testCases, test{
		name:  "incompatible arrows",
		decls: []string{"func(int) int", ""},
		steps: []step{
			{"?2", "func(str) bool", nil},
			{"?1", "?2", ErrMismatch},
		},
		ctx: "[?1 := func(int) int, ?2 := func(str) bool]",
	})
	testCases = append(testCases, test{
		name:  "failure rolls back",
		decls: []string{"int", ""},
		steps: []step{
			{"func(?2) ?2", "func(str) bool", ErrMismatch},
		},
		ctx: "[?1 := int, ?2]",
	})
	testCases = append(testCases, test{
		name:  "solved through a chain",
		decls: []string{"int", "?1"},
		steps: []step{
			{"?2", "int", nil},
			{"int", "?2", nil},
		},
		ctx: "[?1 := int, ?2 := ?1]",
	})
	testCases = append(testCases, test{
		name:  "bound names are rigid",
		decls: []string{""},
		steps: []step{
			{"$0", "$0", nil},
			{"$0", "$1", ErrMismatch},
			{"$0", "int", ErrMismatch},
			{"?1", "$0", ErrMismatch},
			{"?1", "func($0) int", ErrMismatch},
			{"func(int) $0", "?1", ErrMismatch},
			{"func(?1) $0", "func(int) $1", ErrMismatch},
			{"func($0) int", "func($0) int", nil},
		},
		ctx: "[?1]",
	})
	testCases = append(testCases, test{
		name:  "undeclared variable",
		decls: []string{},
		steps: []step{
			{"?7", "int", ErrNoContext},
			{"?7", "?8", ErrNoContext},
		},
		ctx: "[]",
	})

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if tc.name == "" {
			t.Errorf("test #%d: not named", index)
			continue
		}
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			ctx := NewContext()
			ctx.Debug = testing.Verbose()
			ctx.Logf = func(format string, v ...interface{}) {
				t.Logf(fmt.Sprintf("test #%d", index)+": "+format, v...)
			}

			for i, decl := range tc.decls {
				var typ *types.Type
				if decl != "" {
					typ = types.MustParse(decl)
				}
				if name := ctx.Fresh(typ); name != types.Free(uint32(i+1)) {
					t.Errorf("test #%d: unexpected fresh name: %s", index, name)
					return
				}
			}

			for i, x := range tc.steps {
				lhs, rhs := types.MustParse(x.lhs), types.MustParse(x.rhs)
				err := ctx.Unify(lhs, rhs)
				if x.err == nil && err != nil {
					t.Errorf("test #%d: step %d: unify(%s, %s) failed with: %+v", index, i, lhs, rhs, err)
					return
				}
				if x.err != nil && !errors.Is(err, x.err) {
					t.Errorf("test #%d: step %d: unify(%s, %s) expected: %v, got: %v", index, i, lhs, rhs, x.err, err)
					return
				}
			}

			if s := ctx.String(); s != tc.ctx {
				t.Errorf("test #%d: unexpected context", index)
				t.Logf("test #%d: got: %s", index, s)
				t.Logf("test #%d: exp: %s", index, tc.ctx)
				t.Logf("test #%d: dump: %s", index, litter.Sdump(ctx.Entries()))
			}
		})
	}
}

func TestUnifyNil(t *testing.T) {
	ctx := NewContext()
	if err := ctx.Unify(nil, types.TypeInt); err == nil {
		t.Errorf("expected nil type to fail")
	}
}

func TestMismatchError(t *testing.T) {
	ctx := &Context{} // the zero value works too
	err := ctx.Unify(types.TypeInt, types.TypeStr)
	var merr *MismatchError
	if !errors.As(err, &merr) {
		t.Errorf("expected a *MismatchError, got: %T", err)
		return
	}
	if merr.Lhs.Cmp(types.TypeInt) != nil || merr.Rhs.Cmp(types.TypeStr) != nil {
		t.Errorf("wrong sides in the error: %s", merr)
	}
	if s := err.Error(); s != "type mismatch: int != str" {
		t.Errorf("unexpected message: %s", s)
	}
}

func TestFresh0(t *testing.T) {
	ctx := NewContext()
	seen := make(map[types.TyName]struct{})
	for i := 0; i < 100; i++ {
		name := ctx.Fresh(nil)
		if _, exists := seen[name]; exists {
			t.Errorf("fresh name %s was handed out twice", name)
			return
		}
		seen[name] = struct{}{}
	}
	if ctx.Len() != 100 {
		t.Errorf("expected 100 entries, got: %d", ctx.Len())
	}

	// a failed unify does not give names back
	before := ctx.Fresh(nil)
	_ = ctx.Unify(types.V(before), types.Arr(types.V(before), types.TypeInt))
	if after := ctx.Fresh(nil); !before.Less(after) {
		t.Errorf("names went backwards: %s then %s", before, after)
	}
}

func TestPush0(t *testing.T) {
	ctx := NewContext()
	a := ctx.Fresh(nil)
	b := types.Free(100) // made up elsewhere, merged in by hand
	c := types.Free(101)
	ctx.Push(types.NewSuffix(
		types.TyEntry{Name: b},
		types.TyEntry{Name: c, Decl: types.Arr(types.V(a), types.V(b))},
	))
	if s := ctx.String(); s != "[?1, ?100, ?101 := func(?1) ?100]" {
		t.Errorf("unexpected context: %s", s)
	}
	if err := ctx.Unify(types.V(c), types.MustParse("func(int) str")); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	if s := ctx.Resolve(types.V(c)).String(); s != "func(int) str" {
		t.Errorf("unexpected resolved type: %s", s)
	}
}

func TestOnTop0(t *testing.T) {
	// other kinds of entries are skipped and keep their place
	ctx := NewContext()
	a := ctx.Fresh(nil)
	ctx.Bind("x", types.ScType(types.V(a)))
	ctx.Mark()
	b := ctx.Fresh(nil)

	if err := ctx.Unify(types.V(a), types.V(b)); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	if s := ctx.String(); s != "[?1, x :: ?1, ;, ?2 := ?1]" {
		t.Errorf("unexpected context: %s", s)
	}

	if err := ctx.Unify(types.V(b), types.TypeInt); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	if s := ctx.String(); s != "[?1 := int, x :: ?1, ;, ?2 := ?1]" {
		t.Errorf("unexpected context: %s", s)
	}
	if s := ctx.Resolve(types.V(b)).String(); s != "int" {
		t.Errorf("unexpected resolved type: %s", s)
	}
}

func TestOnTop1(t *testing.T) {
	ctx := NewContext()
	ctx.Mark()
	err := ctx.onTop(func(*Context, types.TyEntry) (Ext, error) {
		t.Errorf("there is no type entry to look at")
		return restore, nil
	})
	if !errors.Is(err, ErrNoContext) {
		t.Errorf("expected no context, got: %+v", err)
	}

	// replacing with an empty suffix drops the entry
	ctx = NewContext()
	a := ctx.Fresh(nil)
	ctx.Bind("x", types.ScType(types.TypeInt))
	err = ctx.onTop(func(_ *Context, entry types.TyEntry) (Ext, error) {
		if entry.Name != a {
			t.Errorf("expected to see %s, got: %s", a, entry.Name)
		}
		return replace(types.NewSuffix()), nil
	})
	if err != nil {
		t.Errorf("onTop failed: %+v", err)
		return
	}
	if s := ctx.String(); s != "[x :: int]" {
		t.Errorf("unexpected context: %s", s)
	}
}

func TestSpecialize0(t *testing.T) {
	ctx := NewContext()
	id := types.ScForall(types.ScType(types.MustParse("func($0) $0")))

	t1 := ctx.Specialize(id)
	t2 := ctx.Specialize(id)
	if s := t1.String(); s != "func(?1) ?1" {
		t.Errorf("unexpected first instance: %s", s)
	}
	if s := t2.String(); s != "func(?2) ?2" {
		t.Errorf("unexpected second instance: %s", s)
	}
	if t1.Arg.Name == t2.Arg.Name {
		t.Errorf("instances must not share variables")
	}

	// using one instance at int doesn't constrain the other one
	if err := ctx.Unify(t1, types.MustParse("func(int) int")); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	if err := ctx.Unify(t2, types.MustParse("func(str) str")); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}

	// a monomorphic scheme comes back as is
	mono := types.MustParse("func(int) str")
	if ctx.Specialize(types.ScType(mono)) != mono {
		t.Errorf("expected the very same type")
	}
}

func TestSpecialize1(t *testing.T) {
	ctx := NewContext()
	scheme := types.ScForall(types.ScLet(types.MustParse("func($0) $0"), types.ScType(types.MustParse("func($0) $1"))))

	typ := ctx.Specialize(scheme)
	if s := typ.String(); s != "func(?2) ?1" {
		t.Errorf("unexpected instance: %s", s)
	}
	if s := ctx.String(); s != "[?1, ?2 := func(?1) ?1]" {
		t.Errorf("unexpected context: %s", s)
	}
	if s := ctx.Resolve(typ).String(); s != "func(func(?1) ?1) ?1" {
		t.Errorf("unexpected resolved type: %s", s)
	}

	// the let bound variable is already solved, so this has to agree
	if err := ctx.Unify(typ, types.MustParse("func(func(int) str) int")); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected mismatch, got: %+v", err)
	}
	if err := ctx.Unify(typ, types.MustParse("func(func(int) int) int")); err != nil {
		t.Errorf("unify failed: %+v", err)
	}
}

func TestDebugLogging(t *testing.T) {
	count := 0
	ctx := &Context{
		Debug: true,
		Logf: func(format string, v ...interface{}) {
			count++
			t.Logf("debug: "+format, v...)
		},
	}
	a := ctx.Fresh(nil)
	if err := ctx.Unify(types.V(a), types.TypeInt); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	if count == 0 {
		t.Errorf("expected some debug messages")
	}

	// without Debug, nothing is logged
	count = 0
	ctx.Debug = false
	if err := ctx.Unify(types.V(a), types.TypeInt); err != nil {
		t.Errorf("unify failed: %+v", err)
	}
	if count != 0 {
		t.Errorf("expected silence, got %d messages", count)
	}
}
