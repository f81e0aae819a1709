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

	"github.com/purpleidea/tc/util/bwd"
	"github.com/purpleidea/tc/util/fwd"
)

// FTV is implemented by anything which can mention a free type variable. The
// Contains method must be exact, because it is used for the occurs check.
type FTV interface {
	// Contains returns true if the name occurs free anywhere inside.
	Contains(name TyName) bool
}

// TyEntry declares a type variable in a context. If Decl is nil, then the
// variable is not yet solved. Otherwise it is defined to be exactly Decl.
type TyEntry struct {
	Name TyName
	Decl *Type
}

// Solved returns true if this variable has a definition.
func (obj TyEntry) Solved() bool {
	return obj.Decl != nil
}

// Contains returns true if the name occurs in the definition of this entry.
// The declared name itself does not count.
func (obj TyEntry) Contains(name TyName) bool {
	return obj.Decl.Contains(name) // nil safe
}

// String returns a representation of this entry such as ?1 or ?2 := int.
func (obj TyEntry) String() string {
	if obj.Decl == nil {
		return obj.Name.String()
	}
	return fmt.Sprintf("%s := %s", obj.Name, obj.Decl)
}

// The EntryKind tells us what is stored in a context slot.
type EntryKind int

const (
	// EntryTY is a type variable declaration.
	EntryTY EntryKind = iota

	// EntryTM is a term variable binding with its type scheme.
	EntryTM

	// EntrySEMI is a marker which separates the entries of an enclosing
	// let binding from the ones that are generalized.
	EntrySEMI
)

// Entry is a single slot in a context. Unification only ever looks at the TY
// entries, the other kinds are carried along untouched.
type Entry struct {
	Kind EntryKind

	Ty     TyEntry // if Kind == TY
	Term   string  // if Kind == TM, this is the bound term name
	Scheme *Scheme // if Kind == TM
}

// TY builds a context entry for a type variable declaration.
func TY(entry TyEntry) *Entry {
	return &Entry{
		Kind: EntryTY,
		Ty:   entry,
	}
}

// TM builds a context entry which binds a term name to its scheme.
func TM(term string, scheme *Scheme) *Entry {
	return &Entry{
		Kind:   EntryTM,
		Term:   term,
		Scheme: scheme,
	}
}

// SEMI builds a generalization marker.
func SEMI() *Entry {
	return &Entry{
		Kind: EntrySEMI,
	}
}

// Contains returns true if the name occurs in this entry.
func (obj *Entry) Contains(name TyName) bool {
	switch obj.Kind {
	case EntryTY:
		return obj.Ty.Contains(name)
	case EntryTM:
		return obj.Scheme.Contains(name)
	}
	return false
}

// String returns a representation of this entry.
func (obj *Entry) String() string {
	switch obj.Kind {
	case EntryTY:
		return obj.Ty.String()
	case EntryTM:
		return fmt.Sprintf("%s :: %s", obj.Term, obj.Scheme)
	case EntrySEMI:
		return ";"
	}
	panic("malformed entry")
}

// Ctx is the ordered list of everything committed to a context, with the
// newest entry at the tail.
type Ctx = bwd.Bwd[*Entry]

// Suffix is a batch of type entries which have not been merged into a context
// yet. The head is the oldest and is merged first.
type Suffix = fwd.Fwd[TyEntry]

// NewSuffix builds a suffix from the entries, the first one being the oldest.
func NewSuffix(entries ...TyEntry) Suffix {
	return fwd.FromSlice(entries...)
}

// FwdContains returns true if any element of the forward list contains the
// name.
func FwdContains[T FTV](xs fwd.Fwd[T], name TyName) bool {
	return xs.Visit(func(x T) bool { return x.Contains(name) })
}

// BwdContains returns true if any element of the backward list contains the
// name.
func BwdContains[T FTV](xs bwd.Bwd[T], name TyName) bool {
	return xs.Visit(func(x T) bool { return x.Contains(name) })
}

// Affix returns the context with every entry in the suffix added to it, in
// order, as type entries.
func Affix(ctx Ctx, suffix Suffix) Ctx {
	suffix.Visit(func(entry TyEntry) bool {
		ctx = ctx.Snoc(TY(entry))
		return false // keep going
	})
	return ctx
}
