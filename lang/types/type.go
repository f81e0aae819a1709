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

// Package types provides the type terms which are solved by unification, and
// the context entries and schemes which describe them.
package types

import (
	"fmt"
	"strconv"

	"github.com/purpleidea/tc/util"
	"github.com/purpleidea/tc/util/errwrap"
)

// Basic types defined here as a convenience for use with Type.Cmp(X).
var (
	TypeBool  = Con("bool")
	TypeStr   = Con("str")
	TypeInt   = Con("int")
	TypeFloat = Con("float")
)

// The Kind represents the shape of each type term.
type Kind int

// Each Kind represents a type term in the type language.
const (
	KindNil Kind = iota
	KindVar
	KindArr
	KindCon
)

// String returns a human readable name for the kind.
func (obj Kind) String() string {
	switch obj {
	case KindNil:
		return "nil"
	case KindVar:
		return "var"
	case KindArr:
		return "arr"
	case KindCon:
		return "con"
	}
	return "Kind(" + strconv.Itoa(int(obj)) + ")"
}

// TyName is the identifier of a type variable. A free name is a metavariable
// owned by a unification context, and its ID comes from that context's
// counter. A bound name is a de Bruijn index which refers to an enclosing
// binder of a Scheme, counting outwards from zero.
type TyName struct {
	Bound bool
	ID    uint32
}

// Free returns the free (meta) variable name with this id.
func Free(id uint32) TyName {
	return TyName{ID: id}
}

// Index returns the bound variable name for this de Bruijn index.
func Index(idx uint32) TyName {
	return TyName{Bound: true, ID: idx}
}

// String returns the textual form of the name. Free names look like ?3, and
// bound names look like $0.
func (obj TyName) String() string {
	if obj.Bound {
		return "$" + strconv.FormatUint(uint64(obj.ID), 10)
	}
	return "?" + strconv.FormatUint(uint64(obj.ID), 10)
}

// Less orders names. Free names sort before bound ones, and then by ID, which
// for free names is their order of creation.
func (obj TyName) Less(name TyName) bool {
	if obj.Bound != name.Bound {
		return !obj.Bound
	}
	return obj.ID < name.ID
}

// Contains returns true if this is the name we're looking for.
func (obj TyName) Contains(name TyName) bool {
	return obj == name
}

// Type is the datastructure representing a type term. It is immutable once it
// has been built, so subterms are shared by pointer and never copied.
type Type struct {
	Kind Kind

	Name TyName // if Kind == Var
	Arg  *Type  // if Kind == Arr, use Arg for the input and Res for the output
	Res  *Type
	Con  string // if Kind == Con, this is the constructor name
}

// V builds a reference to a type variable.
func V(name TyName) *Type {
	return &Type{
		Kind: KindVar,
		Name: name,
	}
}

// Bound builds a reference to the bound variable with the given de Bruijn
// index.
func Bound(idx uint32) *Type {
	return V(Index(idx))
}

// Arr builds the function type from arg to res.
func Arr(arg, res *Type) *Type {
	if arg == nil || res == nil {
		panic("malformed arr type")
	}
	return &Type{
		Kind: KindArr,
		Arg:  arg,
		Res:  res,
	}
}

// Con builds a named ground type like int or str.
func Con(name string) *Type {
	return &Type{
		Kind: KindCon,
		Con:  name,
	}
}

// Func builds a curried function type. The last type is the output, so that
// Func(a, b, c) is the same as Arr(a, Arr(b, c)). With a single argument it is
// returned unchanged.
func Func(typs ...*Type) *Type {
	if len(typs) == 0 {
		panic("func type needs an output")
	}
	out := typs[len(typs)-1]
	for i := len(typs) - 2; i >= 0; i-- {
		out = Arr(typs[i], out)
	}
	return out
}

// IsVar returns true if this is a variable of either flavour.
func (obj *Type) IsVar() bool {
	return obj != nil && obj.Kind == KindVar
}

// String returns the textual form of the type. Function types are printed as
// func(arg) res, which NewType can read back.
func (obj *Type) String() string {
	if obj == nil {
		return "<nil>"
	}
	switch obj.Kind {
	case KindVar:
		return obj.Name.String()

	case KindArr:
		if obj.Arg == nil || obj.Res == nil {
			panic("malformed arr type")
		}
		return fmt.Sprintf("func(%s) %s", obj.Arg.String(), obj.Res.String())

	case KindCon:
		return obj.Con
	}

	panic("malformed type")
}

// Pretty is like String, except that free variables are renamed to ?a, ?b and
// so on, in order of first appearance. This is what we show to humans.
func (obj *Type) Pretty() string {
	names := make(map[TyName]string)
	for i, name := range obj.Vars() {
		names[name] = "?" + util.NumToAlpha(i)
	}
	return obj.rename(names)
}

// Rename is like String, except that the free variables found in the map are
// printed with the given names instead.
func (obj *Type) Rename(names map[TyName]string) string {
	if obj == nil {
		return "<nil>"
	}
	return obj.rename(names)
}

func (obj *Type) rename(names map[TyName]string) string {
	switch obj.Kind {
	case KindVar:
		if s, exists := names[obj.Name]; exists {
			return s
		}
		return obj.Name.String()
	case KindArr:
		return fmt.Sprintf("func(%s) %s", obj.Arg.rename(names), obj.Res.rename(names))
	}
	return obj.String()
}

// Vars returns the list of free variable names in this type, in order of first
// appearance from left to right, without duplicates.
func (obj *Type) Vars() []TyName {
	seen := make(map[TyName]struct{})
	out := []TyName{}
	var walk func(*Type)
	walk = func(typ *Type) {
		switch typ.Kind {
		case KindVar:
			if typ.Name.Bound {
				return
			}
			if _, exists := seen[typ.Name]; exists {
				return
			}
			seen[typ.Name] = struct{}{}
			out = append(out, typ.Name)
		case KindArr:
			walk(typ.Arg)
			walk(typ.Res)
		}
	}
	if obj != nil {
		walk(obj)
	}
	return out
}

// Contains returns true if the variable name occurs anywhere in this type. It
// is the occurs check, so it must never miss an occurrence.
func (obj *Type) Contains(name TyName) bool {
	if obj == nil {
		return false
	}
	switch obj.Kind {
	case KindVar:
		return obj.Name == name
	case KindArr:
		return obj.Arg.Contains(name) || obj.Res.Contains(name)
	}
	return false
}

// Cmp compares this type to another. It returns nil if they are structurally
// identical, including the names of any variables.
func (obj *Type) Cmp(typ *Type) error {
	if obj == nil || typ == nil {
		return fmt.Errorf("cannot compare to nil")
	}
	if obj == typ {
		return nil // shared
	}

	if obj.Kind != typ.Kind {
		return fmt.Errorf("base kind does not match (%+v != %+v)", obj.Kind, typ.Kind)
	}
	switch obj.Kind {
	case KindVar:
		if obj.Name != typ.Name {
			return fmt.Errorf("variable %s does not match %s", obj.Name, typ.Name)
		}
		return nil

	case KindCon:
		if obj.Con != typ.Con {
			return fmt.Errorf("constructor %s does not match %s", obj.Con, typ.Con)
		}
		return nil

	case KindArr:
		if obj.Arg == nil || obj.Res == nil || typ.Arg == nil || typ.Res == nil {
			panic("malformed arr type")
		}
		aerr := obj.Arg.Cmp(typ.Arg)
		rerr := obj.Res.Cmp(typ.Res)
		if aerr != nil && rerr != nil {
			return errwrap.Append(aerr, rerr) // two errors
		}
		if aerr != nil {
			return errwrap.Wrapf(aerr, "arg differs")
		}
		if rerr != nil {
			return errwrap.Wrapf(rerr, "result differs")
		}
		return nil
	}

	panic("malformed type")
}
