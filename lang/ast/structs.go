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

// Package ast contains the structs implementing the expression language that
// the inference pass checks.
package ast

import (
	"fmt"
	"strconv"
)

// Expr is any expression in the language.
type Expr interface {
	fmt.Stringer

	// Offset is the byte offset in the input where this expression starts.
	Offset() int
}

// Textarea stores the position of a node in the original input.
type Textarea struct {
	Pos int
}

// Offset returns the byte offset where this node starts.
func (obj *Textarea) Offset() int { return obj.Pos }

// ExprBool is a representation of a boolean.
type ExprBool struct {
	Textarea

	V bool
}

// String returns a short representation of this expression.
func (obj *ExprBool) String() string { return fmt.Sprintf("bool(%t)", obj.V) }

// ExprStr is a representation of a string.
type ExprStr struct {
	Textarea

	V string
}

// String returns a short representation of this expression.
func (obj *ExprStr) String() string { return fmt.Sprintf("str(%s)", strconv.Quote(obj.V)) }

// ExprInt is a representation of an int.
type ExprInt struct {
	Textarea

	V int64
}

// String returns a short representation of this expression.
func (obj *ExprInt) String() string { return fmt.Sprintf("int(%d)", obj.V) }

// ExprVar is a representation of a variable lookup.
type ExprVar struct {
	Textarea

	Name string
}

// String returns a short representation of this expression.
func (obj *ExprVar) String() string { return fmt.Sprintf("var(%s)", obj.Name) }

// ExprFunc is a lambda with a single parameter.
type ExprFunc struct {
	Textarea

	// Param is the name the argument is bound to inside of Body.
	Param string

	Body Expr
}

// String returns a short representation of this expression.
func (obj *ExprFunc) String() string {
	return fmt.Sprintf("func(%s) { %s }", obj.Param, obj.Body)
}

// ExprCall applies a function to a single argument. Calls with more arguments
// are nested, so `f a b` is a call of `f a` with `b`.
type ExprCall struct {
	Textarea

	Func Expr
	Arg  Expr
}

// String returns a short representation of this expression.
func (obj *ExprCall) String() string {
	return fmt.Sprintf("call:%s(%s)", obj.Func, obj.Arg)
}

// ExprLet binds a name to a value for the scope of the body. The value does not
// see its own name, and the name is polymorphic in the body.
type ExprLet struct {
	Textarea

	Name  string
	Value Expr
	Body  Expr
}

// String returns a short representation of this expression.
func (obj *ExprLet) String() string {
	return fmt.Sprintf("let(%s = %s) { %s }", obj.Name, obj.Value, obj.Body)
}
