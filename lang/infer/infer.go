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

// Package infer computes the types of expressions by generating unification
// problems against a context. Let bound names are generalized, so they can be
// used at more than one type in their body.
package infer

import (
	"fmt"

	"github.com/purpleidea/tc/lang/ast"
	"github.com/purpleidea/tc/lang/types"
	"github.com/purpleidea/tc/lang/unification"
	"github.com/purpleidea/tc/util/errwrap"
)

// Infer returns the type of the expression, with every solved variable in it
// resolved. Names which are free in the expression must be bound in the context
// beforehand, for example with BindBuiltins. If this errors, then the term
// bindings made along the way are removed again, but type variables and scope
// markers from the failed attempt may remain, so the context should usually be
// thrown away.
func Infer(ctx *unification.Context, expr ast.Expr) (*types.Type, error) {
	if expr == nil {
		return nil, fmt.Errorf("nil expression")
	}
	typ, err := infer(ctx, expr)
	if err != nil {
		return nil, err
	}
	return ctx.Resolve(typ), nil
}

func infer(ctx *unification.Context, expr ast.Expr) (*types.Type, error) {
	switch obj := expr.(type) {
	case *ast.ExprBool:
		return types.TypeBool, nil

	case *ast.ExprStr:
		return types.TypeStr, nil

	case *ast.ExprInt:
		return types.TypeInt, nil

	case *ast.ExprVar:
		scheme, err := ctx.Lookup(obj.Name)
		if err != nil {
			return nil, errwrap.Wrapf(err, "@%d", obj.Offset())
		}
		return ctx.Specialize(scheme), nil

	case *ast.ExprFunc:
		a := ctx.Fresh(nil)
		ctx.Bind(obj.Param, types.ScType(types.V(a)))
		body, err := infer(ctx, obj.Body)
		if err != nil {
			ctx.Unbind(obj.Param) // ignore, we already have an error
			return nil, err
		}
		if err := ctx.Unbind(obj.Param); err != nil {
			return nil, err // programming error
		}
		return types.Arr(types.V(a), body), nil

	case *ast.ExprCall:
		fn, err := infer(ctx, obj.Func)
		if err != nil {
			return nil, err
		}
		arg, err := infer(ctx, obj.Arg)
		if err != nil {
			return nil, err
		}
		b := ctx.Fresh(nil)
		if err := ctx.Unify(fn, types.Arr(arg, types.V(b))); err != nil {
			return nil, errwrap.Wrapf(err, "can't call %s of type %s with %s of type %s @%d",
				obj.Func, ctx.Resolve(fn).Pretty(), obj.Arg, ctx.Resolve(arg).Pretty(), obj.Offset())
		}
		return types.V(b), nil

	case *ast.ExprLet:
		ctx.Mark()
		value, err := infer(ctx, obj.Value)
		if err != nil {
			return nil, err
		}
		scheme, err := ctx.Generalize(value)
		if err != nil {
			return nil, errwrap.Wrapf(err, "can't generalize %s @%d", obj.Name, obj.Offset())
		}
		ctx.Bind(obj.Name, scheme)
		body, err := infer(ctx, obj.Body)
		if err != nil {
			ctx.Unbind(obj.Name) // ignore, we already have an error
			return nil, err
		}
		if err := ctx.Unbind(obj.Name); err != nil {
			return nil, err // programming error
		}
		return body, nil
	}

	return nil, fmt.Errorf("unknown expression: %T", expr)
}
