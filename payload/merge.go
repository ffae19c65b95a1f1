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

// Merge combines update on top of base using the type-directed rule from the
// vertex compute spec: if both are maps, keys of update win over base,
// left-to-right; otherwise update replaces base outright. A Nil update
// leaves base untouched, since it represents "no new value was produced".
func Merge(base, update Value) Value {
	if update.IsNil() {
		return base
	}
	if base.kind == KindMap && update.kind == KindMap {
		merged := make(map[string]Value, len(base.m)+len(update.m))
		for k, v := range base.m {
			merged[k] = v
		}
		for k, v := range update.m {
			merged[k] = v // update wins
		}
		return Map(merged)
	}
	return update
}

// Aggregate folds an ordered sequence of message contents into the single
// aggregated payload a vertex sees in its compute context:
//   - empty input -> Nil
//   - all numeric -> arithmetic sum
//   - all maps -> left-to-right key-wise merge, later keys overwrite
//   - otherwise -> the ordered list of contents, unchanged
func Aggregate(contents []Value) Value {
	if len(contents) == 0 {
		return Nil
	}

	allNumbers := true
	allMaps := true
	for _, c := range contents {
		if c.kind != KindNumber {
			allNumbers = false
		}
		if c.kind != KindMap {
			allMaps = false
		}
	}

	if allNumbers {
		var sum float64
		for _, c := range contents {
			sum += c.number
		}
		return Number(sum)
	}

	if allMaps {
		merged := make(map[string]Value)
		for _, c := range contents {
			for k, v := range c.m {
				merged[k] = v // later keys overwrite
			}
		}
		return Map(merged)
	}

	return List(contents)
}
