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

package message

import (
	"testing"

	"github.com/Gearhartlove/pregel-ex/payload"
)

func TestNewStampsFields(t *testing.T) {
	m := New("a", "b", payload.Number(1), 3)
	if m.Sender != "a" || m.Recipient != "b" || m.Superstep != 3 {
		t.Fatalf("unexpected message fields: %+v", m)
	}
	if n, ok := m.Content.Number(); !ok || n != 1 {
		t.Fatalf("expected content 1, got %v", m.Content)
	}
	if m.Timestamp.IsZero() {
		t.Fatalf("expected a non-zero timestamp")
	}
}
