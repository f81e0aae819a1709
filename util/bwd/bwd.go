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

// Package bwd implements a persistent backward list, which is commonly known
// as a "snoc list". Elements are added at the tail, so the newest element is
// always the cheapest one to reach. This is the shape of a typing context that
// grows as new declarations are made.
//
// Every operation returns a new list which shares the spine of the old one. As
// a result, older handles stay valid and cheap to keep around. This is what
// lets a caller pop an element, look at it, and then decide to put the old list
// back without having to copy anything.
//
// This package does not attempt to be thread-safe, but since the lists are
// never mutated after construction, they can be read from many goroutines.
package bwd

// Bwd is a persistent snoc list. The zero value is the empty list.
type Bwd[T any] struct {
	node *node[T]
}

// node is a single cell. The size is cached so that Len is O(1).
type node[T any] struct {
	init *node[T]
	last T
	size int
}

// Nil returns the empty list.
func Nil[T any]() Bwd[T] {
	return Bwd[T]{}
}

// Singleton returns a list with exactly one element.
func Singleton[T any](x T) Bwd[T] {
	return Nil[T]().Snoc(x)
}

// FromSlice builds a list from the input elements. The first element of the
// slice is the oldest, and the last one ends up at the tail.
func FromSlice[T any](xs ...T) Bwd[T] {
	obj := Nil[T]()
	for _, x := range xs {
		obj = obj.Snoc(x)
	}
	return obj
}

// IsNil returns true if the list is empty.
func (obj Bwd[T]) IsNil() bool {
	return obj.node == nil
}

// Len returns the number of elements in the list.
func (obj Bwd[T]) Len() int {
	if obj.node == nil {
		return 0
	}
	return obj.node.size
}

// Snoc returns a new list with x added at the tail.
func (obj Bwd[T]) Snoc(x T) Bwd[T] {
	return Bwd[T]{
		node: &node[T]{
			init: obj.node,
			last: x,
			size: obj.Len() + 1,
		},
	}
}

// Unsnoc splits the list into everything but the tail, and the tail element.
// If the list is empty, then the boolean is false.
func (obj Bwd[T]) Unsnoc() (Bwd[T], T, bool) {
	if obj.node == nil {
		var zero T
		return obj, zero, false
	}
	return Bwd[T]{node: obj.node.init}, obj.node.last, true
}

// Last returns the newest element.
func (obj Bwd[T]) Last() (T, bool) {
	_, x, ok := obj.Unsnoc()
	return x, ok
}

// Init returns the list without its newest element.
func (obj Bwd[T]) Init() (Bwd[T], bool) {
	xs, _, ok := obj.Unsnoc()
	return xs, ok
}

// Append returns the list with every element of other added after the tail,
// preserving the order of other. This is linear in the length of other.
func (obj Bwd[T]) Append(other Bwd[T]) Bwd[T] {
	if other.IsNil() {
		return obj
	}
	if obj.IsNil() {
		return other // share the whole thing
	}
	for _, x := range other.Slice() {
		obj = obj.Snoc(x)
	}
	return obj
}

// Visit walks the list from the newest element to the oldest, and returns true
// as soon as f returns true for one of them. It returns false if no element
// matched, including when the list is empty.
func (obj Bwd[T]) Visit(f func(T) bool) bool {
	for n := obj.node; n != nil; n = n.init {
		if f(n.last) {
			return true
		}
	}
	return false
}

// Slice returns a copy of the list as a slice, ordered from oldest to newest.
func (obj Bwd[T]) Slice() []T {
	out := make([]T, obj.Len())
	i := len(out) - 1
	for n := obj.node; n != nil; n = n.init {
		out[i] = n.last
		i--
	}
	return out
}
