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
	"strconv"
	"strings"
	"unicode"
)

// NewType creates the Type from the string representation. Variables must be
// written with their numeric ids, as in func(?1) ?2. It returns nil if the
// string can't be parsed. Use ParseType if you want the error, or to resolve
// named variables.
func NewType(s string) *Type {
	typ, err := ParseType(s, nil)
	if err != nil {
		return nil
	}
	return typ
}

// ParseType reads a type from its string representation. The grammar is:
//
//	type := func(type, ...) type | ?name | $index | constructor | (type)
//
// A multi argument func is curried, so func(a, b) c is func(a) func(b) c. If
// the lookup function is not nil, it resolves every ?name, including numeric
// ones. Otherwise only numeric names like ?3 are accepted.
func ParseType(s string, lookup func(string) (TyName, error)) (*Type, error) {
	p := &typeParser{
		input:  s,
		lookup: lookup,
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input at %d: %q", p.pos, p.input[p.pos:])
	}
	return typ, nil
}

// typeParser is a small recursive descent parser over the input string.
type typeParser struct {
	input  string
	pos    int
	lookup func(string) (TyName, error)
}

func (obj *typeParser) skipSpace() {
	for obj.pos < len(obj.input) && obj.input[obj.pos] == ' ' {
		obj.pos++
	}
}

// peek returns the next non space byte, or zero at the end of input.
func (obj *typeParser) peek() byte {
	obj.skipSpace()
	if obj.pos >= len(obj.input) {
		return 0
	}
	return obj.input[obj.pos]
}

func (obj *typeParser) expect(c byte) error {
	if got := obj.peek(); got != c {
		if got == 0 {
			return fmt.Errorf("expected %q at %d, got end of input", c, obj.pos)
		}
		return fmt.Errorf("expected %q at %d, got %q", c, obj.pos, got)
	}
	obj.pos++
	return nil
}

// word reads an identifier made of letters, digits and underscores.
func (obj *typeParser) word() string {
	start := obj.pos
	for obj.pos < len(obj.input) {
		r := rune(obj.input[obj.pos])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		obj.pos++
	}
	return obj.input[start:obj.pos]
}

func (obj *typeParser) parseType() (*Type, error) {
	switch c := obj.peek(); {
	case c == 0:
		return nil, fmt.Errorf("unexpected end of input at %d", obj.pos)

	case c == '(':
		obj.pos++
		typ, err := obj.parseType()
		if err != nil {
			return nil, err
		}
		if err := obj.expect(')'); err != nil {
			return nil, err
		}
		return typ, nil

	case c == '?':
		obj.pos++
		name := obj.word()
		if name == "" {
			return nil, fmt.Errorf("missing variable name at %d", obj.pos)
		}
		if obj.lookup != nil {
			n, err := obj.lookup(name)
			if err != nil {
				return nil, err
			}
			return V(n), nil
		}
		id, err := strconv.ParseUint(name, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid variable id: ?%s", name)
		}
		return V(Free(uint32(id))), nil

	case c == '$':
		obj.pos++
		name := obj.word()
		idx, err := strconv.ParseUint(name, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid bound index: $%s", name)
		}
		return Bound(uint32(idx)), nil
	}

	start := obj.pos
	name := obj.word()
	if name == "" {
		return nil, fmt.Errorf("unexpected %q at %d", obj.input[start], start)
	}
	if name != "func" {
		if !unicode.IsLetter(rune(name[0])) {
			return nil, fmt.Errorf("invalid constructor name: %s", name)
		}
		return Con(name), nil
	}

	if err := obj.expect('('); err != nil {
		return nil, err
	}
	args := []*Type{}
	for {
		arg, err := obj.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if obj.peek() != ',' {
			break
		}
		obj.pos++
	}
	if err := obj.expect(')'); err != nil {
		return nil, err
	}
	out, err := obj.parseType()
	if err != nil {
		return nil, err
	}
	return Func(append(args, out)...), nil
}

// MustParse is like NewType, except it panics on error. It is meant for tests
// and for package level variables.
func MustParse(s string) *Type {
	typ, err := ParseType(s, nil)
	if err != nil {
		panic(fmt.Sprintf("can't parse type %q: %+v", strings.TrimSpace(s), err))
	}
	return typ
}
