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

package infer

import (
	"github.com/purpleidea/tc/lang/types"
	"github.com/purpleidea/tc/lang/unification"
	"github.com/purpleidea/tc/util/errwrap"
)

// Builtin is a named value with a type signature. Variables in the signature
// are written as ?a, ?b and so on, and are generalized when bound.
type Builtin struct {
	Name string
	Sig  string
}

// Builtins is a small standard environment.
var Builtins = []Builtin{
	{Name: "add", Sig: "func(int, int) int"},
	{Name: "concat", Sig: "func(str, str) str"},
	{Name: "itoa", Sig: "func(int) str"},
	{Name: "len", Sig: "func(str) int"},
	{Name: "not", Sig: "func(bool) bool"},
	{Name: "eq", Sig: "func(?a, ?a) bool"},
	{Name: "if", Sig: "func(bool, ?a, ?a) ?a"},
	{Name: "fix", Sig: "func(func(?a) ?a) ?a"},
	{Name: "const", Sig: "func(?a, ?b) ?a"},
}

// BindBuiltins binds every builtin in the context, in order, at a polymorphic
// type.
func BindBuiltins(ctx *unification.Context, builtins []Builtin) error {
	for _, builtin := range builtins {
		ctx.Mark()
		names := make(map[string]types.TyName)
		lookup := func(s string) (types.TyName, error) {
			if name, exists := names[s]; exists {
				return name, nil
			}
			name := ctx.Fresh(nil)
			names[s] = name
			return name, nil
		}
		typ, err := types.ParseType(builtin.Sig, lookup)
		if err != nil {
			ctx.Generalize(types.TypeInt) // close the scope we opened
			return errwrap.Wrapf(err, "invalid signature for %s", builtin.Name)
		}
		scheme, err := ctx.Generalize(typ)
		if err != nil {
			return errwrap.Wrapf(err, "can't generalize %s", builtin.Name)
		}
		ctx.Bind(builtin.Name, scheme)
	}
	return nil
}
