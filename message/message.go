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

// Package message is the immutable unit of inter-vertex communication.
package message

import (
	"time"

	"github.com/Gearhartlove/pregel-ex/payload"
)

// Message is sent from one vertex to another along an edge, or via an
// explicit send. Superstep is always the sender's superstep at send time;
// Timestamp is wall-clock, captured for diagnostics only and carries no
// ordering semantics beyond Superstep.
type Message struct {
	Sender    string
	Recipient string
	Content   payload.Value
	Superstep int
	Timestamp time.Time
}

// New builds a Message, stamping the current time.
func New(sender, recipient string, content payload.Value, superstep int) *Message {
	return &Message{
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		Superstep: superstep,
		Timestamp: time.Now(),
	}
}
