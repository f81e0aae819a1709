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

package unification

import (
	"fmt"

	"github.com/purpleidea/tc/lang/types"
	"github.com/purpleidea/tc/util/errwrap"
)

// Mark starts a new generalization scope, usually right before the definition
// of a let binding is checked. It must be matched by a call to Generalize.
func (obj *Context) Mark() {
	obj.ctx = obj.ctx.Snoc(types.SEMI())
}

// Generalize ends the scope started by the newest Mark. Every type variable
// declared since then, which nothing older depends on, is removed from the
// context and the type is quantified over them. Solved variables are kept in
// the scheme as Let binders. If a term binding from inside the scope is still
// present, then this errors and the context is left unchanged.
func (obj *Context) Generalize(typ *types.Type) (*types.Scheme, error) {
	if typ == nil {
		return nil, fmt.Errorf("nil type")
	}

	entries := []types.TyEntry{} // newest first
	ctx := obj.ctx
	for {
		rest, entry, ok := ctx.Unsnoc()
		if !ok {
			return nil, ErrNoMarker
		}
		ctx = rest

		if entry.Kind == types.EntrySEMI {
			break // found our marker
		}
		if entry.Kind == types.EntryTM {
			return nil, errwrap.Wrapf(ErrUnbound, "term %s escapes its scope", entry.Term)
		}
		entries = append(entries, entry.Ty)
	}
	obj.ctx = ctx

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	scheme := types.BindSuffix(types.NewSuffix(entries...), typ)
	obj.logf("generalized: %s", scheme)
	return scheme, nil
}

// Bind adds a term variable with its scheme to the context. It shadows any
// older binding of the same name until it is removed with Unbind.
func (obj *Context) Bind(term string, scheme *types.Scheme) {
	obj.ctx = obj.ctx.Snoc(types.TM(term, scheme))
}

// Lookup returns the scheme of the newest binding of the term variable.
func (obj *Context) Lookup(term string) (*types.Scheme, error) {
	var scheme *types.Scheme
	found := obj.ctx.Visit(func(entry *types.Entry) bool {
		if entry.Kind == types.EntryTM && entry.Term == term {
			scheme = entry.Scheme
			return true
		}
		return false
	})
	if !found {
		return nil, errwrap.Wrapf(ErrUnbound, "unknown variable %s", term)
	}
	return scheme, nil
}

// Unbind removes the newest binding of the term variable. Every entry that was
// added after it stays where it is, since type variables which were declared
// while the term was in scope may still be needed.
func (obj *Context) Unbind(term string) error {
	above := []*types.Entry{} // newest first
	ctx := obj.ctx
	for {
		rest, entry, ok := ctx.Unsnoc()
		if !ok {
			return errwrap.Wrapf(ErrUnbound, "can't unbind %s", term)
		}
		ctx = rest
		if entry.Kind == types.EntryTM && entry.Term == term {
			break
		}
		above = append(above, entry)
	}
	for i := len(above) - 1; i >= 0; i-- {
		ctx = ctx.Snoc(above[i])
	}
	obj.ctx = ctx
	return nil
}

// Resolve returns the type with every solved variable replaced by its solution,
// recursively. Unsolved variables are left as they are. This is sometimes
// called "zonking". Parts of the type which don't change are shared with the
// input.
func (obj *Context) Resolve(typ *types.Type) *types.Type {
	solutions := make(map[types.TyName]*types.Type)
	obj.ctx.Visit(func(entry *types.Entry) bool {
		if entry.Kind == types.EntryTY && entry.Ty.Decl != nil {
			solutions[entry.Ty.Name] = entry.Ty.Decl
		}
		return false // visit them all
	})

	var resolve func(*types.Type) *types.Type
	resolve = func(t *types.Type) *types.Type {
		switch t.Kind {
		case types.KindVar:
			decl, exists := solutions[t.Name]
			if !exists {
				return t
			}
			// the context is ordered, so this terminates
			return resolve(decl)

		case types.KindArr:
			arg := resolve(t.Arg)
			res := resolve(t.Res)
			if arg == t.Arg && res == t.Res {
				return t
			}
			return types.Arr(arg, res)
		}
		return t
	}
	return resolve(typ)
}
