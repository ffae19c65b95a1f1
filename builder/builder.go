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

// Package builder is a fluent façade over registry: it accumulates a
// pending graph description under caller-chosen logical names and
// translates it into the registry's CRUD calls at Finish, tearing down
// whatever it already created on the first error. It does not execute
// anything itself — it's a thin wrapper, not a second engine.
package builder

import (
	"github.com/hashicorp/go-multierror"

	"github.com/Gearhartlove/pregel-ex/edge"
	"github.com/Gearhartlove/pregel-ex/registry"
	"github.com/Gearhartlove/pregel-ex/vertex"
	"github.com/Gearhartlove/pregel-ex/xerrors"
)

// Builder accumulates vertices and edges under one pending graph. Build one
// with NewBuilder, chain Vertex/Edge calls, then call Finish.
type Builder struct {
	reg     *registry.Registry
	graphID string

	vertexIDs map[string]string // logical name -> minted vertex id
	err       error
}

// NewBuilder creates the underlying graph under id immediately. A failure
// there (such as a duplicate id) is recorded rather than returned: later
// Vertex/Edge calls become no-ops and Finish returns the error.
func NewBuilder(reg *registry.Registry, id string) *Builder {
	b := &Builder{reg: reg, vertexIDs: make(map[string]string)}
	graphID, err := reg.CreateGraph(id)
	b.graphID = graphID
	b.err = err
	return b
}

// Vertex registers a vertex under logical name. Once any call on this
// Builder has failed, further calls are no-ops that preserve the first
// error.
func (b *Builder) Vertex(name string, fn vertex.ComputeFunc, opts vertex.Options) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.vertexIDs[name]; exists {
		b.err = xerrors.Wrapf(xerrors.ErrDuplicateVertexName, "name %q", name)
		return b
	}
	id, err := b.reg.CreateVertex(b.graphID, name, fn, opts)
	if err != nil {
		b.err = err
		return b
	}
	b.vertexIDs[name] = id
	return b
}

// Edge adds a directed edge between two vertices previously registered by
// name in this same Builder.
func (b *Builder) Edge(from, to string, weight float64, properties map[string]interface{}, cond edge.Condition) *Builder {
	if b.err != nil {
		return b
	}
	fromID, ok := b.vertexIDs[from]
	if !ok {
		b.err = xerrors.Wrapf(xerrors.ErrUnknownVertex, "name %q", from)
		return b
	}
	toID, ok := b.vertexIDs[to]
	if !ok {
		b.err = xerrors.Wrapf(xerrors.ErrUnknownVertex, "name %q", to)
		return b
	}
	if err := b.reg.CreateEdge(b.graphID, fromID, toID, weight, properties, cond); err != nil {
		b.err = err
	}
	return b
}

// Finish returns the finished graph's id, or tears the graph down and
// returns the first error encountered plus any teardown failure, joined
// with go-multierror.
func (b *Builder) Finish() (string, error) {
	if b.err == nil {
		return b.graphID, nil
	}

	result := multierror.Append(nil, b.err)
	if b.graphID != "" {
		if err := b.reg.StopGraph(b.graphID); err != nil {
			result = multierror.Append(result, xerrors.Wrapf(err, "teardown"))
		}
	}
	return "", result.ErrorOrNil()
}

// VertexID returns the minted id for a logical name registered so far,
// useful for SendMessage or inspection before Finish is called.
func (b *Builder) VertexID(name string) (string, bool) {
	id, ok := b.vertexIDs[name]
	return id, ok
}
