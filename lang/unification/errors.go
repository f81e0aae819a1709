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
	"github.com/purpleidea/tc/util"
)

const (
	// ErrOccurs means a variable would have been solved to a type which
	// contains it, which would build an infinite type. The program being
	// checked is ill-typed.
	ErrOccurs = util.Error("occurs check failed")

	// ErrMismatch means two incompatible type shapes met. Every
	// *MismatchError matches this with errors.Is.
	ErrMismatch = util.Error("type mismatch")

	// ErrNoContext means we ran out of context while searching for a
	// variable. This can only happen if a type mentions a variable which
	// did not come from this context, so it is a programming error.
	ErrNoContext = util.Error("variable is not declared in the context")

	// ErrNoMarker means Generalize was called without a matching Mark.
	ErrNoMarker = util.Error("no generalization marker in the context")

	// ErrUnbound means a term variable was looked up but isn't bound.
	ErrUnbound = util.Error("term variable is not bound")
)

// MismatchError is returned when two types with incompatible shapes have to be
// made equal, such as an int and a func, or two different constructors.
type MismatchError struct {
	Lhs *types.Type
	Rhs *types.Type
}

// Error returns a representation of this error.
func (obj *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s != %s", ErrMismatch, obj.Lhs, obj.Rhs)
}

// Unwrap lets errors.Is match this against ErrMismatch.
func (obj *MismatchError) Unwrap() error {
	return ErrMismatch
}
