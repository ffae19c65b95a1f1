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

package pgraph

import (
	"crypto/rand"
	"encoding/hex"
)

// vertexIDPrefix is frozen by the data model: every minted vertex id starts
// with it, followed by the hex encoding of 16 random bytes.
const vertexIDPrefix = "vtx."

// NewVertexID mints an opaque vertex id. Collisions are astronomically
// unlikely (128 bits of crypto/rand) and are not checked for, here or in
// AddVertex: a vertex added under an id already present replaces the
// existing entry.
func NewVertexID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// broken, which is not a condition this package recovers from.
		panic("pgraph: crypto/rand unavailable: " + err.Error())
	}
	return vertexIDPrefix + hex.EncodeToString(buf)
}
