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

// Package registry is the process-wide directory mapping a graph id to its
// Graph and Engine, and a (graph id, vertex id) pair to a vertex handle. It
// is the single entry point external callers use instead of reaching into
// pgraph/engine/vertex directly.
package registry

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/Gearhartlove/pregel-ex/edge"
	"github.com/Gearhartlove/pregel-ex/engine"
	"github.com/Gearhartlove/pregel-ex/metrics"
	"github.com/Gearhartlove/pregel-ex/payload"
	"github.com/Gearhartlove/pregel-ex/pgraph"
	"github.com/Gearhartlove/pregel-ex/vertex"
	"github.com/Gearhartlove/pregel-ex/xerrors"
)

// Config configures a Registry at construction. The zero value is usable:
// Logf falls back to a logrus-backed default and MetricsRegistry stays nil
// (no Prometheus collectors are built).
type Config struct {
	Logf            func(format string, v ...interface{})
	MetricsRegistry *prometheus.Registry
}

func defaultLogf() func(format string, v ...interface{}) {
	log := logrus.StandardLogger()
	return func(format string, v ...interface{}) {
		log.Printf(format, v...)
	}
}

// entry bundles one graph's CRUD handle and its superstep driver.
type entry struct {
	graph  *pgraph.Graph
	engine *engine.Engine
}

// Registry owns every live graph in this process.
type Registry struct {
	cfg Config

	mu     sync.RWMutex
	graphs map[string]*entry
	order  []string
}

// New builds an empty Registry.
func New(cfg Config) *Registry {
	if cfg.Logf == nil {
		cfg.Logf = defaultLogf()
	}
	return &Registry{
		cfg:    cfg,
		graphs: make(map[string]*entry),
	}
}

func (r *Registry) get(graphID string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, exists := r.graphs[graphID]
	if !exists {
		return nil, xerrors.ErrGraphNotFound
	}
	return e, nil
}

// CreateGraph registers a new, empty graph under id. id doubles as the
// graph's identifier everywhere else in this API; it must be unique across
// every currently live graph.
func (r *Registry) CreateGraph(id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.graphs[id]; exists {
		return "", xerrors.ErrDuplicateGraph
	}
	g := pgraph.New(id, r.cfg.Logf)

	var m *metrics.Collectors
	if r.cfg.MetricsRegistry != nil {
		m = metrics.New(r.cfg.MetricsRegistry, id)
	}
	eng := engine.New(g, r.cfg.Logf, m)

	r.graphs[id] = &entry{graph: g, engine: eng}
	r.order = append(r.order, id)
	r.cfg.Logf("registry: created graph %s", id)
	return id, nil
}

// StopGraph stops every vertex in graphID and removes the graph from the
// directory.
func (r *Registry) StopGraph(graphID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, exists := r.graphs[graphID]
	if !exists {
		return xerrors.ErrGraphNotFound
	}
	for _, v := range e.graph.ListVertices() {
		v.Stop()
	}
	delete(r.graphs, graphID)
	for i, id := range r.order {
		if id == graphID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListGraphs returns every live graph id, in creation order.
func (r *Registry) ListGraphs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// GraphCount reports how many graphs are currently live.
func (r *Registry) GraphCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.graphs)
}

// CreateVertex mints a vertex id, builds a Vertex under graphID and adds it
// to the graph. It returns the minted id.
func (r *Registry) CreateVertex(graphID, name string, fn vertex.ComputeFunc, opts vertex.Options) (string, error) {
	e, err := r.get(graphID)
	if err != nil {
		return "", err
	}
	id := pgraph.NewVertexID()
	v := vertex.New(graphID, id, name, fn, opts)
	if err := e.graph.AddVertex(v); err != nil {
		v.Stop()
		return "", err
	}
	return id, nil
}

// StopVertex removes vertexID from graphID, dropping any edge elsewhere in
// the graph that targeted it.
func (r *Registry) StopVertex(graphID, vertexID string) error {
	e, err := r.get(graphID)
	if err != nil {
		return err
	}
	return e.graph.RemoveVertex(vertexID)
}

// GetVertexState returns a point-in-time snapshot of vertexID.
func (r *Registry) GetVertexState(graphID, vertexID string) (vertex.State, error) {
	e, err := r.get(graphID)
	if err != nil {
		return vertex.State{}, err
	}
	v, err := e.graph.GetVertex(vertexID)
	if err != nil {
		return vertex.State{}, err
	}
	return v.GetState(), nil
}

// ListVertices returns a snapshot of every vertex in graphID, in insertion
// order.
func (r *Registry) ListVertices(graphID string) ([]vertex.State, error) {
	e, err := r.get(graphID)
	if err != nil {
		return nil, err
	}
	vs := e.graph.ListVertices()
	out := make([]vertex.State, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.GetState())
	}
	return out, nil
}

// VertexCount reports how many vertices graphID currently holds.
func (r *Registry) VertexCount(graphID string) (int, error) {
	e, err := r.get(graphID)
	if err != nil {
		return 0, err
	}
	return e.graph.VertexCount(), nil
}

// CreateEdge adds a directed edge from -> to in graphID. Both endpoints
// must already exist.
func (r *Registry) CreateEdge(graphID, from, to string, weight float64, properties map[string]interface{}, cond edge.Condition) error {
	e, err := r.get(graphID)
	if err != nil {
		return err
	}
	return e.graph.AddEdge(from, to, weight, properties, cond)
}

// RemoveEdge deletes the edge from -> to in graphID, if any.
func (r *Registry) RemoveEdge(graphID, from, to string) error {
	e, err := r.get(graphID)
	if err != nil {
		return err
	}
	return e.graph.RemoveEdge(from, to)
}

// GetVertexEdges returns vertexID's outgoing edges.
func (r *Registry) GetVertexEdges(graphID, vertexID string) ([]*edge.Edge, error) {
	e, err := r.get(graphID)
	if err != nil {
		return nil, err
	}
	return e.graph.GetVertexEdges(vertexID)
}

// GetVertexNeighbors returns the target ids of vertexID's outgoing edges.
func (r *Registry) GetVertexNeighbors(graphID, vertexID string) ([]string, error) {
	e, err := r.get(graphID)
	if err != nil {
		return nil, err
	}
	return e.graph.GetVertexNeighbors(vertexID)
}

// ListEdges returns every edge in graphID.
func (r *Registry) ListEdges(graphID string) ([]*edge.Edge, error) {
	e, err := r.get(graphID)
	if err != nil {
		return nil, err
	}
	return e.graph.ListEdges(), nil
}

// SendMessage enqueues content onto from's outbox, addressed to to. Both
// vertices must already exist in graphID.
func (r *Registry) SendMessage(graphID, from, to string, content payload.Value) error {
	e, err := r.get(graphID)
	if err != nil {
		return err
	}
	return e.graph.SendMessage(from, to, content)
}

// ComputeVertex runs a single vertex's Compute out of band, bypassing the
// superstep loop. Intended for tests and interactive debugging, not for
// production graph execution — it does not drain, deliver or advance
// anything, so its side effects (new value, queued outbox entries) only
// become visible to the rest of the graph at the next normal superstep.
func (r *Registry) ComputeVertex(graphID, vertexID string) error {
	e, err := r.get(graphID)
	if err != nil {
		return err
	}
	v, err := e.graph.GetVertex(vertexID)
	if err != nil {
		return err
	}
	return v.Compute()
}

// ExecuteSuperstep runs exactly one round of graphID's superstep loop.
func (r *Registry) ExecuteSuperstep(graphID string) (int, error) {
	e, err := r.get(graphID)
	if err != nil {
		return 0, err
	}
	return e.engine.ExecuteSuperstep(context.Background())
}

// Run drives graphID to termination or until cfg's bounds trip.
func (r *Registry) Run(graphID string, cfg engine.RunConfig) (int, error) {
	e, err := r.get(graphID)
	if err != nil {
		return 0, err
	}
	return e.engine.Run(context.Background(), cfg)
}

// GetFinalValue returns graphID's unique TypeFinal vertex's current value.
func (r *Registry) GetFinalValue(graphID string) (payload.Value, error) {
	e, err := r.get(graphID)
	if err != nil {
		return payload.Nil, err
	}
	return e.engine.GetFinalValue()
}
