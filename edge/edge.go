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

// Package edge is the immutable edge record of the graph: source, target,
// weight, properties and an optional send predicate. It has no behaviour of
// its own beyond field access and condition evaluation — a vertex decides
// when to consult a condition, this package only carries it.
//
// ComputeContext lives here rather than in package vertex so that an Edge's
// Condition can reference it without creating an import cycle: vertex
// depends on edge (for OutgoingEdges), not the other way around.
package edge

import "github.com/Gearhartlove/pregel-ex/payload"

// ComputeContext is the read-only view handed to a user compute function and
// to an edge Condition. OutgoingEdges is keyed by target vertex id.
type ComputeContext struct {
	Value              payload.Value
	RawMessages        []payload.Value
	AggregatedMessages payload.Value
	VertexID           string
	Superstep          int
	OutgoingEdges      map[string]*Edge
}

// Condition decides whether a vertex should send along this edge this
// round. Absence (a nil Condition) always sends. A Condition that panics is
// treated by the caller as "never send" and surfaced as a DeliveryWarning —
// see vertex.Vertex.emit.
type Condition func(ComputeContext) bool

// Edge is an immutable directed, weighted connection between two vertex
// ids. At most one Edge exists per (Source, Target) pair in a given graph.
type Edge struct {
	Source     string
	Target     string
	Weight     float64
	Properties map[string]interface{}
	Condition  Condition // nil means "always send"
}

// New builds an Edge. A nil or empty properties map is normalized to an
// empty, non-nil map so callers never have to nil-check it.
func New(source, target string, weight float64, properties map[string]interface{}, cond Condition) *Edge {
	props := properties
	if props == nil {
		props = map[string]interface{}{}
	}
	return &Edge{
		Source:     source,
		Target:     target,
		Weight:     weight,
		Properties: props,
		Condition:  cond,
	}
}

// DefaultWeight is used by callers that don't specify one explicitly.
const DefaultWeight = 1.0
