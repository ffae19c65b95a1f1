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

// Package payload implements the tagged sum type that flows through vertex
// values, message contents and compute results. Nothing in this module
// passes a bare interface{} across a package boundary; everything travels
// as a payload.Value so aggregation and merge branch on Kind in one place
// (Aggregate and Merge) instead of in scattered type switches.
package payload

import "fmt"

// Kind tags which variant a Value holds.
type Kind int

// The closed set of payload variants.
const (
	KindNil Kind = iota
	KindNumber
	KindMap
	KindList
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindNumber:
		return "number"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Value is the immutable tagged union. Only one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	kind Kind

	number float64
	m      map[string]Value
	list   []Value
	opaque interface{}
}

// Nil is the empty payload; it is what an empty inbox aggregates to.
var Nil = Value{kind: KindNil}

// Number wraps a numeric payload.
func Number(f float64) Value { return Value{kind: KindNumber, number: f} }

// Map wraps a key-value payload. The map is copied so the Value stays
// immutable after construction.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

// List wraps an ordered payload. The slice is copied.
func List(vs []Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindList, list: cp}
}

// Opaque wraps anything that isn't a number, map or list under this type
// system — a scalar string, a bool, a user struct, whatever the caller
// handed the engine.
func Opaque(v interface{}) Value { return Value{kind: KindOpaque, opaque: v} }

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether this is the Nil payload.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Number returns the numeric payload and whether v actually held one.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.number, true
}

// Map returns the map payload and whether v actually held one. The returned
// map is a copy.
func (v Value) Map() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	cp := make(map[string]Value, len(v.m))
	for k, val := range v.m {
		cp[k] = val
	}
	return cp, true
}

// List returns the list payload and whether v actually held one. The
// returned slice is a copy.
func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Opaque returns the opaque payload and whether v actually held one.
func (v Value) Opaque() (interface{}, bool) {
	if v.kind != KindOpaque {
		return nil, false
	}
	return v.opaque, true
}

// Equal reports deep value equality, used by the vertex compute rule that
// treats a returned value equal to the current one as "unchanged".
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindNumber:
		return v.number == o.number
	case KindOpaque:
		return v.opaque == o.opaque
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, val := range v.m {
			ov, ok := o.m[k]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "<nil>"
	case KindNumber:
		return fmt.Sprintf("%v", v.number)
	case KindOpaque:
		return fmt.Sprintf("%v", v.opaque)
	case KindList:
		return fmt.Sprintf("%v", v.list)
	case KindMap:
		return fmt.Sprintf("%v", v.m)
	default:
		return "<unknown>"
	}
}
