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

// Package unification implements type unification over an ordered context of
// type variable declarations, instead of over a global substitution. Each
// variable is declared in the context, and is solved in place. Since the
// context is ordered, a variable can only be solved to a type which mentions
// variables that were declared before it. When that is not yet the case, the
// variables it depends on are moved down the context, just before it. This is
// also what makes generalization of let bindings easy: everything declared
// after a marker, and not needed by anything older, is local and can be
// quantified over.
//
// The context is a persistent list, so taking a snapshot is free. A failed
// Unify restores the snapshot it took, so a Context stays usable after a type
// error.
//
// This package does not attempt to be thread-safe. Use one Context per
// goroutine, or wrap it with the synchronization primitives of your choosing.
package unification

import (
	"fmt"
	"strings"

	"github.com/purpleidea/tc/lang/types"
	"github.com/purpleidea/tc/util/errwrap"
	"github.com/purpleidea/tc/util/fwd"
)

// Ext tells onTop what to do with the entry that it took off of the context.
// The zero value restores it unchanged.
type Ext struct {
	// Replace is true if the entry should be dropped in favour of Suffix.
	Replace bool

	// Suffix is spliced in where the entry was, if Replace is true.
	Suffix types.Suffix
}

// restore puts the entry back where it was.
var restore = Ext{}

// replace swaps the entry for this (possibly empty) suffix of entries.
func replace(suffix types.Suffix) Ext {
	return Ext{
		Replace: true,
		Suffix:  suffix,
	}
}

// Context holds the ordered list of type variable declarations which are being
// solved, and the counter that names new ones. The zero value is an empty
// context which is ready to use.
type Context struct {
	Debug bool
	Logf  func(format string, v ...interface{})

	// next is the last name that was handed out. It never goes backwards.
	next uint32

	// ctx has the newest entry at the tail.
	ctx types.Ctx
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{}
}

// logf logs only when debugging is on, and if a logger was given.
func (obj *Context) logf(format string, v ...interface{}) {
	if !obj.Debug || obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// Fresh declares a new type variable at the end of the context and returns its
// name, which is different from every name handed out before. If decl is not
// nil, the variable is already solved to it. The caller must make sure that
// decl only mentions variables from this context.
func (obj *Context) Fresh(decl *types.Type) types.TyName {
	obj.next++
	name := types.Free(obj.next)
	obj.ctx = obj.ctx.Snoc(types.TY(types.TyEntry{Name: name, Decl: decl}))
	return name
}

// Push adds every entry of the suffix to the end of the context, in order.
func (obj *Context) Push(suffix types.Suffix) {
	obj.ctx = types.Affix(obj.ctx, suffix)
}

// Len returns the number of entries in the context, of every kind.
func (obj *Context) Len() int {
	return obj.ctx.Len()
}

// Entries returns a copy of the entries, oldest first.
func (obj *Context) Entries() []*types.Entry {
	return obj.ctx.Slice()
}

// String returns a representation of the context, oldest entry first.
func (obj *Context) String() string {
	s := []string{}
	for _, entry := range obj.ctx.Slice() {
		s = append(s, entry.String())
	}
	return "[" + strings.Join(s, ", ") + "]"
}

// onTop takes the newest type entry off of the context and passes it to f. The
// result of f decides if that entry is restored or replaced. Entries of other
// kinds are stepped over and put back once the search below them is done. If
// f errors, the entry is not put back, and the error is returned as is. Unify
// is what restores the context in that case.
func (obj *Context) onTop(f func(*Context, types.TyEntry) (Ext, error)) error {
	rest, entry, ok := obj.ctx.Unsnoc()
	if !ok {
		return ErrNoContext
	}
	obj.ctx = rest

	if entry.Kind != types.EntryTY {
		if err := obj.onTop(f); err != nil {
			return err
		}
		obj.ctx = obj.ctx.Snoc(entry)
		return nil
	}

	ext, err := f(obj, entry.Ty)
	if err != nil {
		return err
	}
	if ext.Replace {
		obj.Push(ext.Suffix)
		return nil
	}
	obj.ctx = obj.ctx.Snoc(entry)
	return nil
}

// Unify makes the two types equal by solving variables in the context. The
// types must only mention variables from this context. Bound indices are rigid
// at any depth: they only match the same index, and a variable is never solved
// to a type which contains one.
// It returns an error which matches ErrOccurs or ErrMismatch with errors.Is
// if the types can't be made equal. Unification is all or nothing: on error,
// the context is exactly what it was before the call.
func (obj *Context) Unify(lhs, rhs *types.Type) error {
	if lhs == nil || rhs == nil {
		return fmt.Errorf("nil type")
	}
	obj.logf("unify: %s ~ %s", lhs, rhs)

	saved := obj.ctx // free, since the list is persistent
	if err := obj.unify(lhs, rhs); err != nil {
		obj.ctx = saved
		obj.logf("unify failed: %+v", err)
		return err
	}
	return nil
}

// isMeta returns true if the type is a free, solvable variable.
func isMeta(typ *types.Type) bool {
	return typ.Kind == types.KindVar && !typ.Name.Bound
}

// isBound returns true if the type is a bound de Bruijn index.
func isBound(typ *types.Type) bool {
	return typ.Kind == types.KindVar && typ.Name.Bound
}

// hasBound returns true if a bound index occurs anywhere in the type. A
// variable in the context can never be solved to such a type.
func hasBound(typ *types.Type) bool {
	switch typ.Kind {
	case types.KindVar:
		return typ.Name.Bound
	case types.KindArr:
		return hasBound(typ.Arg) || hasBound(typ.Res)
	}
	return false
}

func (obj *Context) unify(lhs, rhs *types.Type) error {
	switch {
	case lhs.Kind == types.KindArr && rhs.Kind == types.KindArr:
		if err := obj.unify(lhs.Arg, rhs.Arg); err != nil {
			return err
		}
		return obj.unify(lhs.Res, rhs.Res)

	case isBound(lhs) || isBound(rhs):
		// rigid, they only match themselves
		if lhs.Kind == rhs.Kind && lhs.Name == rhs.Name {
			return nil
		}

	case isMeta(lhs) && isMeta(rhs):
		return obj.unifyVars(lhs.Name, rhs.Name)

	case isMeta(lhs) && !hasBound(rhs):
		return obj.solve(lhs.Name, fwd.Nil[types.TyEntry](), rhs)

	case isMeta(rhs) && !hasBound(lhs):
		return obj.solve(rhs.Name, fwd.Nil[types.TyEntry](), lhs)

	case lhs.Kind == types.KindCon && rhs.Kind == types.KindCon:
		if lhs.Con == rhs.Con {
			return nil
		}
	}

	return &MismatchError{
		Lhs: lhs,
		Rhs: rhs,
	}
}

// unifyVars makes two variables equal. It searches down the context for the
// newer of the two, since that is the only one which can be defined in terms
// of the other without breaking the order of the context.
func (obj *Context) unifyVars(a, b types.TyName) error {
	return obj.onTop(func(ctx *Context, entry types.TyEntry) (Ext, error) {
		g, d := entry.Name, entry.Decl
		switch {
		case g == a && g == b:
			return restore, nil

		case g == a && d == nil:
			ctx.logf("solved: %s := %s", a, b)
			return replace(types.NewSuffix(types.TyEntry{Name: a, Decl: types.V(b)})), nil

		case g == b && d == nil:
			ctx.logf("solved: %s := %s", b, a)
			return replace(types.NewSuffix(types.TyEntry{Name: b, Decl: types.V(a)})), nil

		case g == a:
			if err := ctx.unify(types.V(b), d); err != nil {
				return restore, err
			}
			return restore, nil

		case g == b:
			if err := ctx.unify(types.V(a), d); err != nil {
				return restore, err
			}
			return restore, nil
		}

		// this entry is unrelated, keep looking below it
		if err := ctx.unifyVars(a, b); err != nil {
			return restore, err
		}
		return restore, nil
	})
}

// solve makes variable a equal to the type t, which is not a variable. The
// suffix holds the entries that t depends on which were declared after a, and
// so have to be moved in front of it. If a occurs in t, or in anything that t
// depends on, then this fails the occurs check.
func (obj *Context) solve(a types.TyName, suffix types.Suffix, t *types.Type) error {
	return obj.onTop(func(ctx *Context, entry types.TyEntry) (Ext, error) {
		g, d := entry.Name, entry.Decl
		occurs := t.Contains(g) || types.FwdContains(suffix, g)

		switch {
		case g == a && occurs:
			return restore, errwrap.Wrapf(ErrOccurs, "%s occurs in %s", a, t)

		case g == a && d == nil:
			ctx.logf("solved: %s := %s", a, t)
			solved := types.NewSuffix(types.TyEntry{Name: a, Decl: t})
			return replace(suffix.Append(solved)), nil

		case g == a:
			// already solved, so the old and new answers must agree
			ctx.Push(suffix)
			if err := ctx.unify(d, t); err != nil {
				return restore, err
			}
			return restore, nil

		case occurs:
			// t needs g, so g moves along with us and ends up before a
			if err := ctx.solve(a, fwd.Cons(entry, suffix), t); err != nil {
				return restore, err
			}
			return replace(fwd.Nil[types.TyEntry]()), nil
		}

		if err := ctx.solve(a, suffix, t); err != nil {
			return restore, err
		}
		return restore, nil
	})
}

// Specialize instantiates the scheme with fresh variables and returns the
// resulting type. Every Forall binder gets a new unsolved variable, and every
// Let binder gets a new variable which is solved to its definition. Each call
// makes new variables, so two uses of the same scheme never share any.
func (obj *Context) Specialize(scheme *types.Scheme) *types.Type {
	if scheme == nil {
		panic("nil scheme")
	}
	for scheme.Kind != types.SchemeType {
		var name types.TyName
		switch scheme.Kind {
		case types.SchemeForall:
			name = obj.Fresh(nil)
		case types.SchemeLet:
			name = obj.Fresh(scheme.Type)
		default:
			panic("malformed scheme")
		}

		next, err := types.Instantiate(scheme, types.V(name))
		if err != nil {
			// programming error
			panic(fmt.Sprintf("can't instantiate: %+v", err))
		}
		scheme = next
	}
	return scheme.Type
}
