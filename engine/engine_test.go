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

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Gearhartlove/pregel-ex/edge"
	"github.com/Gearhartlove/pregel-ex/pgraph"
	"github.com/Gearhartlove/pregel-ex/payload"
	"github.com/Gearhartlove/pregel-ex/vertex"
	"github.com/Gearhartlove/pregel-ex/xerrors"
)

// twoHopSum builds: source -> mid -> final, each vertex summing whatever
// lands in its inbox onto its own value and forwarding the new value on.
func twoHopSum(t *testing.T) *pgraph.Graph {
	t.Helper()
	g := pgraph.New("sum_graph", nil)

	sumFn := func(ctx edge.ComputeContext) vertex.Result {
		base, _ := ctx.Value.Number()
		if ctx.AggregatedMessages.IsNil() {
			return vertex.Unchanged()
		}
		delta, _ := ctx.AggregatedMessages.Number()
		return vertex.NewValue(payload.Number(base + delta))
	}

	source := vertex.New(g.ID, "source", "source", sumFn, vertex.Options{
		Type: vertex.TypeSource, Value: payload.Number(1),
	})
	mid := vertex.New(g.ID, "mid", "mid", sumFn, vertex.Options{Value: payload.Number(0)})
	final := vertex.New(g.ID, "final", "final", sumFn, vertex.Options{
		Type: vertex.TypeFinal, Value: payload.Number(0),
	})

	for _, v := range []*vertex.Vertex{source, mid, final} {
		if err := g.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge("source", "mid", edge.DefaultWeight, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("mid", "final", edge.DefaultWeight, nil, nil); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRunTwoHopSumConverges(t *testing.T) {
	g := twoHopSum(t)
	e := New(g, nil, nil)

	rounds, err := e.Run(context.Background(), RunConfig{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if rounds == 0 {
		t.Fatalf("expected at least one round")
	}

	val, err := e.GetFinalValue()
	if err != nil {
		t.Fatal(err)
	}
	n, ok := val.Number()
	if !ok {
		t.Fatalf("expected numeric final value, got %v", val)
	}
	if n != 1 {
		t.Fatalf("expected final value 1, got %v", n)
	}
}

func TestRunTripsMaxSupersteps(t *testing.T) {
	g := pgraph.New("forever", nil)
	// A single source vertex whose fn always returns a new value, wired to
	// itself with a self-loop, receives its own message every round and so
	// never goes inactive: only the superstep cap can stop the run.
	loopFn := func(ctx edge.ComputeContext) vertex.Result {
		base, _ := ctx.Value.Number()
		return vertex.NewValue(payload.Number(base + 1))
	}
	v := vertex.New(g.ID, "v", "v", loopFn, vertex.Options{
		Type: vertex.TypeSource, Value: payload.Number(0),
	})
	if err := g.AddVertex(v); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("v", "v", edge.DefaultWeight, nil, nil); err != nil {
		t.Fatal(err)
	}

	e := New(g, nil, nil)
	max := 5
	_, err := e.Run(context.Background(), RunConfig{MaxSupersteps: &max})
	if err == nil {
		t.Fatalf("expected a bounded failure")
	}
}

func TestRunWithMaxSupersteptsZeroTripsImmediately(t *testing.T) {
	g := pgraph.New("forever", nil)
	loopFn := func(ctx edge.ComputeContext) vertex.Result {
		base, _ := ctx.Value.Number()
		return vertex.NewValue(payload.Number(base + 1))
	}
	v := vertex.New(g.ID, "v", "v", loopFn, vertex.Options{
		Type: vertex.TypeSource, Value: payload.Number(0),
	})
	if err := g.AddVertex(v); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("v", "v", edge.DefaultWeight, nil, nil); err != nil {
		t.Fatal(err)
	}

	e := New(g, nil, nil)
	zero := 0
	rounds, err := e.Run(context.Background(), RunConfig{MaxSupersteps: &zero})
	if rounds != 0 {
		t.Fatalf("expected zero rounds executed, got %d", rounds)
	}
	var bf *xerrors.BoundedFailure
	if !errors.As(err, &bf) {
		t.Fatalf("expected a *xerrors.BoundedFailure, got %v", err)
	}
	if bf.Timeout || bf.Round != 0 {
		t.Fatalf("expected max_supersteps_exceeded{0}, got %v", bf)
	}
}

func TestExplicitSendReactivatesRecipient(t *testing.T) {
	g := pgraph.New("g", nil)
	src := vertex.New(g.ID, "a", "a", func(edge.ComputeContext) vertex.Result {
		return vertex.Unchanged()
	}, vertex.Options{Type: vertex.TypeSource, Value: payload.Number(0)})
	dst := vertex.New(g.ID, "b", "b", func(ctx edge.ComputeContext) vertex.Result {
		return vertex.NewValue(ctx.AggregatedMessages)
	}, vertex.Options{Value: payload.Number(0)})
	for _, v := range []*vertex.Vertex{src, dst} {
		if err := g.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.SendMessage("a", "b", payload.Number(7)); err != nil {
		t.Fatal(err)
	}

	e := New(g, nil, nil)
	// Round 1: the message drains from a's outbox and delivers into b's
	// pending buffer; Advance rotates it into b's incoming and reactivates
	// b for the next round, but b hasn't computed yet.
	if _, err := e.ExecuteSuperstep(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dst.IsActive() {
		t.Fatalf("b should have been reactivated by the delivered message")
	}

	// Round 2: b is active with a non-empty inbox, so it computes now.
	if _, err := e.ExecuteSuperstep(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val := dst.GetState().Value
	n, ok := val.Number()
	if !ok || n != 7 {
		t.Fatalf("expected b's value to become 7, got %v", val)
	}
}
