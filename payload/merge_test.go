// Mgmt
// Copyright (C) 2013-2022+ James Shubin and the project contributors
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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package payload

import "testing"

func TestMergeNilUpdateLeavesBaseUntouched(t *testing.T) {
	base := Number(5)
	got := Merge(base, Nil)
	if !got.Equal(base) {
		t.Fatalf("Merge with a Nil update must return base unchanged, got %v", got)
	}
}

func TestMergeBothMapsKeyWiseUpdateWins(t *testing.T) {
	base := Map(map[string]Value{"a": Number(1), "b": Number(2)})
	update := Map(map[string]Value{"b": Number(20), "c": Number(3)})
	got := Merge(base, update)
	m, ok := got.Map()
	if !ok {
		t.Fatalf("expected a map result")
	}
	if n, _ := m["a"].Number(); n != 1 {
		t.Fatalf("expected a=1 preserved from base, got %v", n)
	}
	if n, _ := m["b"].Number(); n != 20 {
		t.Fatalf("expected b=20 from update to win, got %v", n)
	}
	if n, _ := m["c"].Number(); n != 3 {
		t.Fatalf("expected c=3 added from update, got %v", n)
	}
}

func TestMergeNonMapUpdateReplacesBase(t *testing.T) {
	base := Number(1)
	update := Number(2)
	got := Merge(base, update)
	if n, _ := got.Number(); n != 2 {
		t.Fatalf("expected update to replace base, got %v", n)
	}
}

func TestAggregateEmptyIsNil(t *testing.T) {
	got := Aggregate(nil)
	if !got.IsNil() {
		t.Fatalf("expected Nil for an empty aggregate, got %v", got)
	}
}

func TestAggregateAllNumbersSums(t *testing.T) {
	got := Aggregate([]Value{Number(1), Number(2), Number(3)})
	n, ok := got.Number()
	if !ok || n != 6 {
		t.Fatalf("expected sum 6, got %v ok=%v", n, ok)
	}
}

func TestAggregateAllMapsMergesLeftToRight(t *testing.T) {
	got := Aggregate([]Value{
		Map(map[string]Value{"a": Number(1)}),
		Map(map[string]Value{"a": Number(2), "b": Number(3)}),
	})
	m, ok := got.Map()
	if !ok {
		t.Fatalf("expected a map result")
	}
	if n, _ := m["a"].Number(); n != 2 {
		t.Fatalf("expected later value to overwrite earlier, got a=%v", n)
	}
	if n, _ := m["b"].Number(); n != 3 {
		t.Fatalf("expected b=3, got %v", n)
	}
}

func TestAggregateMixedKindsIsOrderedList(t *testing.T) {
	got := Aggregate([]Value{Number(1), Opaque("x")})
	list, ok := got.List()
	if !ok {
		t.Fatalf("expected a list result for mixed kinds")
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(list))
	}
	if n, _ := list[0].Number(); n != 1 {
		t.Fatalf("expected original order preserved")
	}
}
