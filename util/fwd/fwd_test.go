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

//go:build !root

package fwd

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestCons0(t *testing.T) {
	xs := Cons("a", Cons("b", Singleton("c")))
	if l := xs.Len(); l != 3 {
		t.Errorf("expected length 3, got: %d", l)
	}
	if diff := pretty.Compare(xs.Slice(), []string{"a", "b", "c"}); diff != "" {
		t.Errorf("wrong order:\n%s", diff)
	}

	head, tail, ok := xs.Uncons()
	if !ok || head != "a" {
		t.Errorf("expected head of a, got: %s", head)
	}
	if diff := pretty.Compare(tail.Slice(), []string{"b", "c"}); diff != "" {
		t.Errorf("wrong tail:\n%s", diff)
	}

	var zero Fwd[string]
	if _, _, ok := zero.Uncons(); ok {
		t.Errorf("uncons of empty list should fail")
	}
	if _, ok := zero.Tail(); ok {
		t.Errorf("tail of empty list should fail")
	}
}

func TestAppend0(t *testing.T) {
	type test struct { // an individual test
		name  string
		left  Fwd[int]
		right Fwd[int]
		exp   []int
	}
	testCases := []test{
		{"both empty", Nil[int](), Nil[int](), []int{}},
		{"left empty", Nil[int](), FromSlice(1, 2), []int{1, 2}},
		{"right empty", FromSlice(1, 2), Nil[int](), []int{1, 2}},
		{"both full", FromSlice(1, 2), FromSlice(3, 4, 5), []int{1, 2, 3, 4, 5}},
	}
	for index, tc := range testCases {
		out := tc.left.Append(tc.right)
		if out.Len() != len(tc.exp) {
			t.Errorf("test #%d (%s): wrong length: %d", index, tc.name, out.Len())
		}
		if diff := pretty.Compare(out.Slice(), tc.exp); diff != "" {
			t.Errorf("test #%d (%s): wrong result:\n%s", index, tc.name, diff)
		}
	}

	// appending doesn't disturb the inputs
	left, right := FromSlice(1), FromSlice(2)
	_ = left.Append(right)
	if left.Len() != 1 || right.Len() != 1 {
		t.Errorf("inputs were modified")
	}
}

func TestVisit0(t *testing.T) {
	xs := FromSlice(1, 2, 3, 4)
	seen := []int{}
	found := xs.Visit(func(x int) bool {
		seen = append(seen, x)
		return x == 2
	})
	if !found {
		t.Errorf("expected to find 2")
	}
	if diff := pretty.Compare(seen, []int{1, 2}); diff != "" {
		t.Errorf("wrong visit order:\n%s", diff)
	}
	if xs.Visit(func(x int) bool { return x > 10 }) {
		t.Errorf("nothing should match")
	}
}
