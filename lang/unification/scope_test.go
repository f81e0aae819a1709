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
	"testing"

	"github.com/purpleidea/tc/lang/types"

	"github.com/kylelemons/godebug/pretty"
)

func TestGeneralize0(t *testing.T) {
	ctx := NewContext()
	ctx.Mark()
	a := ctx.Fresh(nil)
	scheme, err := ctx.Generalize(types.Arr(types.V(a), types.V(a)))
	if err != nil {
		t.Errorf("generalize failed: %+v", err)
		return
	}
	exp := types.ScForall(types.ScType(types.MustParse("func($0) $0")))
	if diff := pretty.Compare(scheme, exp); diff != "" {
		t.Errorf("wrong scheme:\n%s", diff)
	}
	if s := scheme.String(); s != "forall 'a. func('a) 'a" {
		t.Errorf("unexpected scheme string: %s", s)
	}
	if ctx.Len() != 0 {
		t.Errorf("expected an empty context, got: %s", ctx)
	}
}

func TestGeneralize1(t *testing.T) {
	// a variable that something outside the scope needs is not generalized
	ctx := NewContext()
	a := ctx.Fresh(nil)
	ctx.Mark()
	b := ctx.Fresh(nil)
	if err := ctx.Unify(types.V(a), types.Arr(types.V(b), types.V(b))); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	if s := ctx.String(); s != "[?2, ?1 := func(?2) ?2, ;]" {
		t.Errorf("unexpected context: %s", s)
	}

	scheme, err := ctx.Generalize(types.V(a))
	if err != nil {
		t.Errorf("generalize failed: %+v", err)
		return
	}
	if scheme.Kind != types.SchemeType || scheme.Type.Name != a {
		t.Errorf("expected a monomorphic scheme, got: %s", scheme)
	}
	if s := ctx.String(); s != "[?2, ?1 := func(?2) ?2]" {
		t.Errorf("unexpected context: %s", s)
	}
}

func TestGeneralize2(t *testing.T) {
	// solved variables in the scope become let binders
	ctx := NewContext()
	ctx.Mark()
	a := ctx.Fresh(nil)
	b := ctx.Fresh(nil)
	if err := ctx.Unify(types.V(b), types.Arr(types.V(a), types.V(a))); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	scheme, err := ctx.Generalize(types.V(b))
	if err != nil {
		t.Errorf("generalize failed: %+v", err)
		return
	}
	if s := scheme.String(); s != "forall 'a. let 'b = func('a) 'a. 'b" {
		t.Errorf("unexpected scheme string: %s", s)
	}

	typ := ctx.Specialize(scheme)
	if s := ctx.Resolve(typ).String(); s != "func(?3) ?3" {
		t.Errorf("unexpected instance: %s", s)
	}
	if s := ctx.String(); s != "[?3, ?4 := func(?3) ?3]" {
		t.Errorf("unexpected context: %s", s)
	}
}

func TestGeneralizeErrors(t *testing.T) {
	ctx := NewContext()
	ctx.Fresh(nil)
	if _, err := ctx.Generalize(types.TypeInt); !errors.Is(err, ErrNoMarker) {
		t.Errorf("expected no marker, got: %+v", err)
	}
	if _, err := ctx.Generalize(nil); err == nil {
		t.Errorf("expected nil type to fail")
	}

	ctx = NewContext()
	ctx.Mark()
	ctx.Bind("x", types.ScType(types.TypeInt))
	if _, err := ctx.Generalize(types.TypeInt); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected escaping term error, got: %+v", err)
	}
	if s := ctx.String(); s != "[;, x :: int]" {
		t.Errorf("context should be unchanged, got: %s", s)
	}
}

func TestNestedMarks(t *testing.T) {
	ctx := NewContext()
	ctx.Mark()
	a := ctx.Fresh(nil)
	ctx.Mark()
	b := ctx.Fresh(nil)

	inner, err := ctx.Generalize(types.V(b))
	if err != nil {
		t.Errorf("generalize failed: %+v", err)
		return
	}
	if inner.Binders() != 1 {
		t.Errorf("inner scope should only have ?2, got: %s", inner)
	}

	outer, err := ctx.Generalize(types.Arr(types.V(a), types.TypeInt))
	if err != nil {
		t.Errorf("generalize failed: %+v", err)
		return
	}
	if s := outer.String(); s != "forall 'a. func('a) int" {
		t.Errorf("unexpected outer scheme: %s", s)
	}
}

func TestBindLookup0(t *testing.T) {
	ctx := NewContext()
	s1 := types.ScType(types.TypeInt)
	s2 := types.ScType(types.TypeStr)
	s3 := types.ScType(types.TypeBool)
	ctx.Bind("x", s1)
	ctx.Bind("y", s2)
	ctx.Bind("x", s3) // shadows the first x

	if scheme, err := ctx.Lookup("x"); err != nil || scheme != s3 {
		t.Errorf("expected the newest x, got: %v (%+v)", scheme, err)
	}
	if scheme, err := ctx.Lookup("y"); err != nil || scheme != s2 {
		t.Errorf("expected y, got: %v (%+v)", scheme, err)
	}
	if _, err := ctx.Lookup("z"); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected z to be unbound, got: %+v", err)
	}

	ctx.Fresh(nil) // declared while x was in scope
	if err := ctx.Unbind("x"); err != nil {
		t.Errorf("unbind failed: %+v", err)
		return
	}
	if s := ctx.String(); s != "[x :: int, y :: str, ?1]" {
		t.Errorf("unexpected context: %s", s)
	}
	if scheme, err := ctx.Lookup("x"); err != nil || scheme != s1 {
		t.Errorf("expected the older x, got: %v (%+v)", scheme, err)
	}

	if err := ctx.Unbind("z"); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected z to be unbound, got: %+v", err)
	}
	if s := ctx.String(); s != "[x :: int, y :: str, ?1]" {
		t.Errorf("failed unbind changed the context: %s", s)
	}
}

func TestResolve0(t *testing.T) {
	ctx := NewContext()
	a := ctx.Fresh(nil)
	b := ctx.Fresh(types.Arr(types.V(a), types.V(a)))
	c := ctx.Fresh(types.V(b))
	d := ctx.Fresh(nil)

	typ := types.Arr(types.V(c), types.V(d))
	if s := ctx.Resolve(typ).String(); s != "func(func(?1) ?1) ?4" {
		t.Errorf("unexpected resolved type: %s", s)
	}

	// nothing solved means nothing changes, and nothing is copied
	plain := types.Arr(types.V(a), types.V(d))
	if ctx.Resolve(plain) != plain {
		t.Errorf("expected the very same type back")
	}

	if err := ctx.Unify(types.V(a), types.TypeInt); err != nil {
		t.Errorf("unify failed: %+v", err)
		return
	}
	if s := ctx.Resolve(typ).String(); s != "func(func(int) int) ?4" {
		t.Errorf("unexpected resolved type: %s", s)
	}
}
