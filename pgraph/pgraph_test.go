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
	"strings"
	"testing"

	"github.com/Gearhartlove/pregel-ex/edge"
	"github.com/Gearhartlove/pregel-ex/payload"
	"github.com/Gearhartlove/pregel-ex/vertex"
	"github.com/Gearhartlove/pregel-ex/xerrors"
)

func unchangedFn(edge.ComputeContext) vertex.Result { return vertex.Unchanged() }

func TestVertexIDFormat(t *testing.T) {
	id := NewVertexID()
	if !strings.HasPrefix(id, "vtx.") {
		t.Fatalf("id %q missing vtx. prefix", id)
	}
	if len(id) != len("vtx.")+32 {
		t.Fatalf("id %q has unexpected length %d", id, len(id))
	}
}

func TestVertexIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewVertexID()
		if seen[id] {
			t.Fatalf("duplicate id minted: %s", id)
		}
		seen[id] = true
	}
}

func TestAddEdgeMissingEndpoint(t *testing.T) {
	g := New("g1", nil)
	a := vertex.New(g.ID, "a", "a", unchangedFn, vertex.Options{})
	if err := g.AddVertex(a); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("a", "b", 1.0, nil, nil); err != xerrors.ErrEndpointMissing {
		t.Fatalf("expected ErrEndpointMissing, got %v", err)
	}
}

func TestMultipleFinalRejected(t *testing.T) {
	g := New("g2", nil)
	f1 := vertex.New(g.ID, "f1", "f1", unchangedFn, vertex.Options{Type: vertex.TypeFinal})
	f2 := vertex.New(g.ID, "f2", "f2", unchangedFn, vertex.Options{Type: vertex.TypeFinal})

	if err := g.AddVertex(f1); err != nil {
		t.Fatalf("unexpected error adding first final vertex: %v", err)
	}
	if err := g.AddVertex(f2); err != xerrors.ErrMultipleFinal {
		t.Fatalf("expected ErrMultipleFinal, got %v", err)
	}
}

func TestRemoveVertexDropsIncomingEdges(t *testing.T) {
	g := New("g3", nil)
	a := vertex.New(g.ID, "a", "a", unchangedFn, vertex.Options{Type: vertex.TypeSource})
	b := vertex.New(g.ID, "b", "b", unchangedFn, vertex.Options{})

	if err := g.AddVertex(a); err != nil {
		t.Fatal(err)
	}
	if err := g.AddVertex(b); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("a", "b", 1.0, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveVertex("b"); err != nil {
		t.Fatal(err)
	}
	neighbors, err := g.GetVertexNeighbors("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(neighbors) != 0 {
		t.Fatalf("expected no neighbors after target removal, got %v", neighbors)
	}
}

func TestRunningFencesVertexCRUD(t *testing.T) {
	g := New("g4", nil)
	g.SetRunning(true)
	v := vertex.New(g.ID, "a", "a", unchangedFn, vertex.Options{})
	if err := g.AddVertex(v); err != xerrors.ErrGraphRunning {
		t.Fatalf("expected ErrGraphRunning, got %v", err)
	}
}

func TestListEdgesConcatenatesInInsertionOrder(t *testing.T) {
	g := New("g5", nil)
	a := vertex.New(g.ID, "a", "a", unchangedFn, vertex.Options{Type: vertex.TypeSource})
	b := vertex.New(g.ID, "b", "b", unchangedFn, vertex.Options{})
	c := vertex.New(g.ID, "c", "c", unchangedFn, vertex.Options{})
	for _, v := range []*vertex.Vertex{a, b, c} {
		if err := g.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge("a", "b", 1.0, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("a", "c", 1.0, nil, nil); err != nil {
		t.Fatal(err)
	}
	edges := g.ListEdges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0].Target != "b" || edges[1].Target != "c" {
		t.Fatalf("expected edges a->b then a->c, got %s then %s", edges[0].Target, edges[1].Target)
	}
}

func TestSendMessageRequiresBothEndpoints(t *testing.T) {
	g := New("g6", nil)
	a := vertex.New(g.ID, "a", "a", unchangedFn, vertex.Options{Type: vertex.TypeSource})
	if err := g.AddVertex(a); err != nil {
		t.Fatal(err)
	}
	if err := g.SendMessage("a", "ghost", payload.Number(1)); err == nil {
		t.Fatalf("expected error sending to nonexistent recipient")
	}
}
