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

// Package fwd implements a persistent forward list, which is the classic "cons
// list". Elements are added at the head. It is used to stage a batch of entries
// which will be spliced into a backward list in order, head first.
package fwd

// Fwd is a persistent cons list. The zero value is the empty list.
type Fwd[T any] struct {
	node *node[T]
}

type node[T any] struct {
	head T
	tail *node[T]
	size int
}

// Nil returns the empty list.
func Nil[T any]() Fwd[T] {
	return Fwd[T]{}
}

// Cons returns a new list with x at the head, followed by xs.
func Cons[T any](x T, xs Fwd[T]) Fwd[T] {
	return Fwd[T]{
		node: &node[T]{
			head: x,
			tail: xs.node,
			size: xs.Len() + 1,
		},
	}
}

// Singleton returns a list with exactly one element.
func Singleton[T any](x T) Fwd[T] {
	return Cons(x, Nil[T]())
}

// FromSlice builds a list which has the same order as the input slice.
func FromSlice[T any](xs ...T) Fwd[T] {
	obj := Nil[T]()
	for i := len(xs) - 1; i >= 0; i-- {
		obj = Cons(xs[i], obj)
	}
	return obj
}

// IsNil returns true if the list is empty.
func (obj Fwd[T]) IsNil() bool {
	return obj.node == nil
}

// Len returns the number of elements in the list.
func (obj Fwd[T]) Len() int {
	if obj.node == nil {
		return 0
	}
	return obj.node.size
}

// Uncons splits the list into the head element and the rest. If the list is
// empty, then the boolean is false.
func (obj Fwd[T]) Uncons() (T, Fwd[T], bool) {
	if obj.node == nil {
		var zero T
		return zero, obj, false
	}
	return obj.node.head, Fwd[T]{node: obj.node.tail}, true
}

// Head returns the first element.
func (obj Fwd[T]) Head() (T, bool) {
	x, _, ok := obj.Uncons()
	return x, ok
}

// Tail returns the list without its first element.
func (obj Fwd[T]) Tail() (Fwd[T], bool) {
	_, xs, ok := obj.Uncons()
	return xs, ok
}

// Append returns the receiver followed by other. The spine of other is shared,
// so this is linear in the length of the receiver only.
func (obj Fwd[T]) Append(other Fwd[T]) Fwd[T] {
	if obj.IsNil() {
		return other
	}
	if other.IsNil() {
		return obj
	}
	xs := obj.Slice()
	for i := len(xs) - 1; i >= 0; i-- {
		other = Cons(xs[i], other)
	}
	return other
}

// Visit walks the list from head to tail, and returns true as soon as f returns
// true for one of the elements.
func (obj Fwd[T]) Visit(f func(T) bool) bool {
	for n := obj.node; n != nil; n = n.tail {
		if f(n.head) {
			return true
		}
	}
	return false
}

// Slice returns a copy of the list as a slice in head to tail order.
func (obj Fwd[T]) Slice() []T {
	out := make([]T, 0, obj.Len())
	for n := obj.node; n != nil; n = n.tail {
		out = append(out, n.head)
	}
	return out
}
