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

package types

import (
	"fmt"

	"github.com/purpleidea/tc/util"
)

// The SchemeKind tells us which binder, if any, is at the top of a scheme.
type SchemeKind int

const (
	// SchemeType is a monomorphic type with no binder.
	SchemeType SchemeKind = iota

	// SchemeForall universally quantifies the next bound variable.
	SchemeForall

	// SchemeLet binds the next bound variable to a known definition.
	SchemeLet
)

// Scheme is a generalized type. Bound variables use de Bruijn indices, so $0
// inside the body of a binder refers to that binder, $1 to the one outside of
// it, and so on. The definition of a Let binder is outside of its own scope.
type Scheme struct {
	Kind SchemeKind

	Type *Type   // if Kind == Type this is the type, if Let the definition
	Body *Scheme // if Kind == Forall or Let
}

// ScType builds a monomorphic scheme.
func ScType(typ *Type) *Scheme {
	return &Scheme{
		Kind: SchemeType,
		Type: typ,
	}
}

// ScForall builds a scheme which quantifies over $0 in the body.
func ScForall(body *Scheme) *Scheme {
	return &Scheme{
		Kind: SchemeForall,
		Body: body,
	}
}

// ScLet builds a scheme where $0 in the body is defined to be def.
func ScLet(def *Type, body *Scheme) *Scheme {
	return &Scheme{
		Kind: SchemeLet,
		Type: def,
		Body: body,
	}
}

// Binders returns the number of binders at the top of this scheme.
func (obj *Scheme) Binders() int {
	n := 0
	for s := obj; s != nil && s.Kind != SchemeType; s = s.Body {
		n++
	}
	return n
}

// Contains returns true if the free name occurs anywhere in this scheme.
func (obj *Scheme) Contains(name TyName) bool {
	if obj == nil {
		return false
	}
	switch obj.Kind {
	case SchemeType:
		return obj.Type.Contains(name)
	case SchemeForall:
		return obj.Body.Contains(name)
	case SchemeLet:
		return obj.Type.Contains(name) || obj.Body.Contains(name)
	}
	return false
}

// String returns a representation of this scheme. Each binder is given a
// readable name such as 'a, and the body is printed with those names in place
// of the de Bruijn indices, eg: `forall 'a. let 'b = func('a) 'a. 'b`.
func (obj *Scheme) String() string {
	s := ""
	scheme := obj
	for i := 0; scheme.Kind != SchemeType; i++ {
		name := "'" + util.NumToAlpha(i)
		switch scheme.Kind {
		case SchemeForall:
			s += fmt.Sprintf("forall %s. ", name)
		case SchemeLet:
			s += fmt.Sprintf("let %s = %s. ", name, scheme.Type)
		default:
			panic("malformed scheme")
		}
		// display only, the quote makes it impossible to parse back
		scheme = openScheme(scheme.Body, 0, Con(name))
	}
	return s + scheme.Type.String()
}

// Instantiate removes the outermost binder of the scheme by replacing the
// variable it binds with typ. The input must be a Forall or a Let. For a Let,
// the definition is dropped, and the caller is expected to have recorded it,
// typically by declaring typ as a variable that is solved to it.
func Instantiate(scheme *Scheme, typ *Type) (*Scheme, error) {
	if scheme == nil || typ == nil {
		return nil, fmt.Errorf("nil scheme or type")
	}
	if scheme.Kind == SchemeType {
		return nil, fmt.Errorf("scheme has no binder")
	}
	return openScheme(scheme.Body, 0, typ), nil
}

// Abstract closes over the free name in the scheme, making it refer to a new
// binder that the caller must wrap around the result. References to name
// become the index of that binder, and any dangling bound indices are shifted
// up by one to make room for it.
func Abstract(name TyName, scheme *Scheme) *Scheme {
	if name.Bound {
		panic("can't abstract a bound name")
	}
	return closeScheme(scheme, 0, name)
}

// BindForall quantifies the scheme over the free name.
func BindForall(name TyName, scheme *Scheme) *Scheme {
	return ScForall(Abstract(name, scheme))
}

// BindLet binds the free name in the scheme to the definition. The definition
// lives outside of the new binder, so it is left untouched.
func BindLet(name TyName, def *Type, scheme *Scheme) *Scheme {
	return ScLet(def, Abstract(name, scheme))
}

// BindSuffix generalizes the type over every variable in the suffix. The
// newest entry becomes the innermost binder. Unsolved entries are quantified
// with Forall, and solved ones keep their definition with Let.
func BindSuffix(suffix Suffix, typ *Type) *Scheme {
	scheme := ScType(typ)
	entries := suffix.Slice()
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry.Decl == nil {
			scheme = BindForall(entry.Name, scheme)
			continue
		}
		scheme = BindLet(entry.Name, entry.Decl, scheme)
	}
	return scheme
}

// openType replaces the bound index at depth with typ. Indices above depth were
// pointing past the removed binder, so they are lowered by one. Unchanged
// subterms are returned as is, so that they stay shared.
func openType(obj *Type, depth uint32, typ *Type) *Type {
	switch obj.Kind {
	case KindVar:
		if !obj.Name.Bound {
			return obj
		}
		if obj.Name.ID == depth {
			return shiftType(typ, depth, 0)
		}
		if obj.Name.ID > depth {
			return Bound(obj.Name.ID - 1)
		}
		return obj

	case KindArr:
		arg := openType(obj.Arg, depth, typ)
		res := openType(obj.Res, depth, typ)
		if arg == obj.Arg && res == obj.Res {
			return obj
		}
		return Arr(arg, res)
	}
	return obj
}

func openScheme(obj *Scheme, depth uint32, typ *Type) *Scheme {
	switch obj.Kind {
	case SchemeType:
		return ScType(openType(obj.Type, depth, typ))
	case SchemeForall:
		return ScForall(openScheme(obj.Body, depth+1, typ))
	case SchemeLet:
		return ScLet(openType(obj.Type, depth, typ), openScheme(obj.Body, depth+1, typ))
	}
	panic("malformed scheme")
}

// closeType replaces the free name with the bound index at depth. Dangling
// indices, at or above depth, are raised by one.
func closeType(obj *Type, depth uint32, name TyName) *Type {
	switch obj.Kind {
	case KindVar:
		if obj.Name == name {
			return Bound(depth)
		}
		if obj.Name.Bound && obj.Name.ID >= depth {
			return Bound(obj.Name.ID + 1)
		}
		return obj

	case KindArr:
		arg := closeType(obj.Arg, depth, name)
		res := closeType(obj.Res, depth, name)
		if arg == obj.Arg && res == obj.Res {
			return obj
		}
		return Arr(arg, res)
	}
	return obj
}

func closeScheme(obj *Scheme, depth uint32, name TyName) *Scheme {
	switch obj.Kind {
	case SchemeType:
		return ScType(closeType(obj.Type, depth, name))
	case SchemeForall:
		return ScForall(closeScheme(obj.Body, depth+1, name))
	case SchemeLet:
		return ScLet(closeType(obj.Type, depth, name), closeScheme(obj.Body, depth+1, name))
	}
	panic("malformed scheme")
}

// shiftType raises every bound index at or above cutoff by amount. This is used
// when a type is moved under more binders than it was built for.
func shiftType(obj *Type, amount, cutoff uint32) *Type {
	if amount == 0 {
		return obj
	}
	switch obj.Kind {
	case KindVar:
		if obj.Name.Bound && obj.Name.ID >= cutoff {
			return Bound(obj.Name.ID + amount)
		}
		return obj

	case KindArr:
		arg := shiftType(obj.Arg, amount, cutoff)
		res := shiftType(obj.Res, amount, cutoff)
		if arg == obj.Arg && res == obj.Res {
			return obj
		}
		return Arr(arg, res)
	}
	return obj
}
