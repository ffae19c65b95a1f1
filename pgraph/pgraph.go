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

// Package pgraph owns one graph's vertex directory and the edges between
// them. It is the CRUD half of Component D; the superstep driver that walks
// this structure lives in package engine.
package pgraph

import (
	"sync"

	"github.com/Gearhartlove/pregel-ex/edge"
	"github.com/Gearhartlove/pregel-ex/payload"
	"github.com/Gearhartlove/pregel-ex/vertex"
	"github.com/Gearhartlove/pregel-ex/xerrors"
)

// Graph is the vertex directory for one graph id. Edge operations enforce
// both endpoints already exist before mutating a vertex's outgoing edges;
// vertex CRUD is rejected outright while the graph is marked running, since
// the superstep driver assumes a fixed vertex set for the duration of a run.
type Graph struct {
	ID string

	Logf func(format string, v ...interface{})

	mu       sync.RWMutex
	vertices map[string]*vertex.Vertex
	order    []string // insertion order, for deterministic listing
	running  bool
	finalID  string // empty means "no final vertex yet"
}

// New builds an empty Graph under id. logf may be nil.
func New(id string, logf func(format string, v ...interface{})) *Graph {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Graph{
		ID:       id,
		Logf:     logf,
		vertices: make(map[string]*vertex.Vertex),
	}
}

// SetRunning flips the running flag the engine uses to fence vertex CRUD
// for the duration of a Run call. A single ExecuteSuperstep call does not
// set it.
func (g *Graph) SetRunning(running bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = running
}

// IsRunning reports the current fence state.
func (g *Graph) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// AddVertex registers v in the directory. Returns xerrors.ErrGraphRunning if
// the graph is mid-run, and xerrors.ErrMultipleFinal if v is a second
// TypeFinal vertex — a graph may have at most one.
func (g *Graph) AddVertex(v *vertex.Vertex) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return xerrors.ErrGraphRunning
	}
	if v.Type == vertex.TypeFinal && g.finalID != "" {
		return xerrors.ErrMultipleFinal
	}
	if _, exists := g.vertices[v.ID]; !exists {
		g.order = append(g.order, v.ID)
	}
	g.vertices[v.ID] = v
	if v.Type == vertex.TypeFinal {
		g.finalID = v.ID
	}
	return nil
}

// RemoveVertex stops and removes the vertex with id, and drops every
// outgoing edge elsewhere in the graph that targeted it, so no edge is ever
// left pointing at a vertex that no longer exists.
func (g *Graph) RemoveVertex(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return xerrors.ErrGraphRunning
	}
	v, exists := g.vertices[id]
	if !exists {
		return xerrors.ErrVertexNotFound
	}
	if v.Type == vertex.TypeFinal {
		g.finalID = ""
	}
	for _, other := range g.vertices {
		_ = other.RemoveOutgoingEdge(id) // ignore "no such edge"
	}
	delete(g.vertices, id)
	for i, vid := range g.order {
		if vid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	v.Stop()
	return nil
}

// GetVertex looks up a vertex by id.
func (g *Graph) GetVertex(id string) (*vertex.Vertex, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, exists := g.vertices[id]
	if !exists {
		return nil, xerrors.ErrVertexNotFound
	}
	return v, nil
}

// ListVertices returns every vertex in insertion order.
func (g *Graph) ListVertices() []*vertex.Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*vertex.Vertex, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.vertices[id])
	}
	return out
}

// VertexCount reports the number of vertices currently in the graph.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// FinalVertexID returns the graph's unique TypeFinal vertex id, if any.
func (g *Graph) FinalVertexID() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.finalID, g.finalID != ""
}

// AddEdge creates a directed edge from -> to. Both endpoints must already
// exist in this graph. We fence this on the running flag too, for the same
// "fixed shape during a run" reason as AddVertex — a run that grows an edge
// mid-round would see it in some supersteps and not others, which the
// barrier model forbids.
func (g *Graph) AddEdge(from, to string, weight float64, properties map[string]interface{}, cond edge.Condition) error {
	g.mu.RLock()
	if g.running {
		g.mu.RUnlock()
		return xerrors.ErrGraphRunning
	}
	src, srcOK := g.vertices[from]
	_, dstOK := g.vertices[to]
	g.mu.RUnlock()
	if !srcOK || !dstOK {
		return xerrors.ErrEndpointMissing
	}
	src.AddOutgoingEdge(edge.New(from, to, weight, properties, cond))
	return nil
}

// RemoveEdge deletes the edge from -> to, if any.
func (g *Graph) RemoveEdge(from, to string) error {
	g.mu.RLock()
	if g.running {
		g.mu.RUnlock()
		return xerrors.ErrGraphRunning
	}
	src, exists := g.vertices[from]
	g.mu.RUnlock()
	if !exists {
		return xerrors.ErrVertexNotFound
	}
	return src.RemoveOutgoingEdge(to)
}

// GetVertexEdges returns id's outgoing edges in insertion order.
func (g *Graph) GetVertexEdges(id string) ([]*edge.Edge, error) {
	v, err := g.GetVertex(id)
	if err != nil {
		return nil, err
	}
	return v.GetOutgoingEdges(), nil
}

// GetVertexNeighbors returns the target ids of id's outgoing edges.
func (g *Graph) GetVertexNeighbors(id string) ([]string, error) {
	v, err := g.GetVertex(id)
	if err != nil {
		return nil, err
	}
	return v.GetNeighbors(), nil
}

// ListEdges is the concatenation of every vertex's outgoing edges, in
// vertex insertion order. Ordering between vertices is not a contract
// callers should depend on beyond "deterministic for a fixed graph".
func (g *Graph) ListEdges() []*edge.Edge {
	g.mu.RLock()
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	vs := make(map[string]*vertex.Vertex, len(g.vertices))
	for k, v := range g.vertices {
		vs[k] = v
	}
	g.mu.RUnlock()

	var out []*edge.Edge
	for _, id := range ids {
		out = append(out, vs[id].GetOutgoingEdges()...)
	}
	return out
}

// SendMessage is the explicit-send path: it resolves sender and recipient,
// then forwards content to the sender's outbox. Both must exist; the
// message is still carried through the normal Phase 2/3 pipeline on the
// next round, so this call only validates identities, not deliverability.
func (g *Graph) SendMessage(from, to string, content payload.Value) error {
	g.mu.RLock()
	sender, srcOK := g.vertices[from]
	_, dstOK := g.vertices[to]
	g.mu.RUnlock()
	if !srcOK {
		return xerrors.Wrapf(xerrors.ErrVertexNotFound, "send message")
	}
	if !dstOK {
		return xerrors.Wrapf(xerrors.ErrVertexNotFound, "send message: recipient")
	}
	sender.EnqueueOutbox(to, content)
	return nil
}
