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

// Package vertex implements the per-vertex actor: the state machine, the
// three message buffers, and the compute/merge/broadcast pipeline. Every
// public method on Vertex is serialized through a single request channel,
// the same way the teacher serializes access to a resource's state through
// its eventsChan run loop (see engine/graph/state.go upstream) — here
// generalized into one loop that executes arbitrary closures so the state
// machine itself stays in one place instead of being spread across a command
// enum.
package vertex

import (
	"fmt"

	"github.com/Gearhartlove/pregel-ex/edge"
	"github.com/Gearhartlove/pregel-ex/message"
	"github.com/Gearhartlove/pregel-ex/payload"
	"github.com/Gearhartlove/pregel-ex/xerrors"
)

// Type tags what role a vertex plays in the graph.
type Type int

// The three roles a vertex may take on.
const (
	TypeSource Type = iota
	TypeNormal
	TypeFinal
)

func (t Type) String() string {
	switch t {
	case TypeSource:
		return "source"
	case TypeFinal:
		return "final"
	default:
		return "normal"
	}
}

// ResultKind tags which variant of a compute Result was returned.
type ResultKind int

// The three compute outcomes a user function may produce.
const (
	ResultNewValue ResultKind = iota
	ResultUnchanged
	ResultHalt
)

// Result is the closed sum type a ComputeFunc returns. Build one with Halt,
// Unchanged or NewValue — never construct it directly, so the zero value
// (ResultNewValue with a Nil payload) can't be mistaken for an intentional
// "unchanged" vote.
type Result struct {
	kind    ResultKind
	payload payload.Value
}

// Halt deactivates the vertex: value is unchanged, no messages go out.
func Halt() Result { return Result{kind: ResultHalt} }

// Unchanged votes that this round produced no new information: the current
// value is rebroadcast as-is and the vertex deactivates. Prefer this over
// returning the current value back, which only an Equal check can detect.
func Unchanged() Result { return Result{kind: ResultUnchanged} }

// NewValue returns p as the newly computed partial value, to be merged with
// the aggregated incoming payload before it becomes the vertex's new value.
func NewValue(p payload.Value) Result { return Result{kind: ResultNewValue, payload: p} }

// ComputeFunc is the user-supplied mapping from a compute context to a
// compute result. It must be finite and non-blocking, and it may not call
// back into the engine.
type ComputeFunc func(edge.ComputeContext) Result

// Vertex is the stateful actor owning one graph node's value, edges and
// message buffers. All exported methods are safe for concurrent use; each
// is funneled through a single serializing goroutine.
type Vertex struct {
	GraphID string
	ID      string
	Name    string
	Type    Type

	fn ComputeFunc

	value     payload.Value
	edgeOrder []string
	edges     map[string]*edge.Edge

	pending  []*message.Message
	incoming []*message.Message
	outgoing []*message.Message

	superstep int
	active    bool

	Logf func(format string, v ...interface{})

	reqCh chan func()
	done  chan struct{}
}

// Options configures a new Vertex at creation time.
type Options struct {
	Value payload.Value
	Type  Type
	Logf  func(format string, v ...interface{})
}

// New builds a Vertex and starts its request loop. The vertex is active on
// creation iff its type is TypeSource, per the vertex state machine.
func New(graphID, id, name string, fn ComputeFunc, opts Options) *Vertex {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	v := &Vertex{
		GraphID: graphID,
		ID:      id,
		Name:    name,
		Type:    opts.Type,
		fn:      fn,
		value:   opts.Value,
		edges:   make(map[string]*edge.Edge),
		active:  opts.Type == TypeSource,
		Logf:    logf,
		reqCh:   make(chan func()),
		done:    make(chan struct{}),
	}
	go v.loop()
	return v
}

// loop is the single goroutine that serializes every request against this
// vertex's state, one at a time, in arrival order.
func (v *Vertex) loop() {
	for {
		select {
		case req := <-v.reqCh:
			req()
		case <-v.done:
			return
		}
	}
}

// do runs fn on the vertex's serializing goroutine and waits for it to
// finish. It is the only way any method in this file touches vertex state.
func (v *Vertex) do(fn func()) {
	reply := make(chan struct{})
	v.reqCh <- func() {
		fn()
		close(reply)
	}
	<-reply
}

// Stop shuts down the vertex's request loop and releases its resources.
// After Stop, further calls on this Vertex are undefined.
func (v *Vertex) Stop() {
	close(v.done)
}

// GetType returns the vertex's role.
func (v *Vertex) GetType() Type {
	var t Type
	v.do(func() { t = v.Type })
	return t
}

// IsActive reports whether the vertex will run compute this round.
func (v *Vertex) IsActive() bool {
	var active bool
	v.do(func() { active = v.active })
	return active
}

// State is a snapshot of a vertex's externally visible state, returned by
// GetState.
type State struct {
	ID        string
	Name      string
	Type      Type
	Value     payload.Value
	Active    bool
	Superstep int
}

// GetState returns a point-in-time snapshot of the vertex.
func (v *Vertex) GetState() State {
	var s State
	v.do(func() {
		s = State{
			ID:        v.ID,
			Name:      v.Name,
			Type:      v.Type,
			Value:     v.value,
			Active:    v.active,
			Superstep: v.superstep,
		}
	})
	return s
}

// AddOutgoingEdge adds an edge from this vertex to e.Target. It does not
// check that the target exists; the caller (pgraph.AddEdge) does that and
// raises xerrors.ErrEndpointMissing. A second edge to the same target
// silently replaces the first, keeping its position in insertion order, so
// there is at most one edge per (source, target) pair.
func (v *Vertex) AddOutgoingEdge(e *edge.Edge) {
	v.do(func() {
		if _, exists := v.edges[e.Target]; !exists {
			v.edgeOrder = append(v.edgeOrder, e.Target)
		}
		v.edges[e.Target] = e
	})
}

// RemoveOutgoingEdge removes the edge to target, if any. Returns
// xerrors.ErrEdgeNotFound if there was none.
func (v *Vertex) RemoveOutgoingEdge(target string) error {
	var err error
	v.do(func() {
		if _, exists := v.edges[target]; !exists {
			err = xerrors.ErrEdgeNotFound
			return
		}
		delete(v.edges, target)
		for i, t := range v.edgeOrder {
			if t == target {
				v.edgeOrder = append(v.edgeOrder[:i], v.edgeOrder[i+1:]...)
				break
			}
		}
	})
	return err
}

// GetOutgoingEdges returns the outgoing edges in insertion order.
func (v *Vertex) GetOutgoingEdges() []*edge.Edge {
	var out []*edge.Edge
	v.do(func() {
		out = make([]*edge.Edge, 0, len(v.edgeOrder))
		for _, t := range v.edgeOrder {
			out = append(out, v.edges[t])
		}
	})
	return out
}

// GetNeighbors returns the target ids of this vertex's outgoing edges, in
// insertion order.
func (v *Vertex) GetNeighbors() []string {
	var out []string
	v.do(func() {
		out = append(out, v.edgeOrder...)
	})
	return out
}

// EnqueueOutbox is the explicit-send path: it appends directly to the
// outbox, alongside whatever compute produces this round.
func (v *Vertex) EnqueueOutbox(target string, content payload.Value) {
	v.do(func() {
		v.outgoing = append(v.outgoing, message.New(v.ID, target, content, v.superstep))
	})
}

// DrainOutbox returns the outbox and clears it.
func (v *Vertex) DrainOutbox() []*message.Message {
	var out []*message.Message
	v.do(func() {
		out = v.outgoing
		v.outgoing = nil
	})
	return out
}

// Receive appends msgs to the pending buffer, to be exposed as incoming
// messages at the next Advance.
func (v *Vertex) Receive(msgs []*message.Message) {
	if len(msgs) == 0 {
		return
	}
	v.do(func() {
		v.pending = append(v.pending, msgs...)
	})
}

// Advance rotates the message buffers and ends the round for this vertex:
// pending becomes incoming, pending is cleared, and the vertex becomes
// active if it received anything (an inactive vertex with nothing pending
// stays whatever it was).
func (v *Vertex) Advance() {
	v.do(func() {
		v.superstep++
		v.incoming = v.pending
		v.pending = nil
		if len(v.incoming) > 0 {
			v.active = true
		}
	})
}

// computeResult is what Compute funnels back through do's closure — it
// can't use a plain return since do's fn is a niladic closure.
type computeResult struct {
	err error
}

// Compute runs one round for this vertex through the vertex state machine:
// a dormant vertex is skipped by the caller before Compute is
// even invoked; an active vertex with an empty inbox past superstep 0
// auto-halts; otherwise the user function runs and its result is applied.
//
// A panic inside fn is recovered and reported as a xerrors.UserFunctionFailure,
// matching "user-function exceptions abort the round ... never retried".
func (v *Vertex) Compute() error {
	var cr computeResult
	v.do(func() {
		cr = v.computeLocked()
	})
	return cr.err
}

func (v *Vertex) computeLocked() (out computeResult) {
	defer func() {
		if r := recover(); r != nil {
			out = computeResult{err: &xerrors.UserFunctionFailure{
				VertexID:  v.ID,
				Superstep: v.superstep,
				Cause:     fmt.Errorf("panic: %v", r),
			}}
		}
	}()

	// auto-halt: active, not the first round, nothing to read. No
	// messages go out here — unlike the Unchanged result below, this
	// path never ran the user function at all.
	if v.superstep > 0 && len(v.incoming) == 0 {
		v.active = false
		return computeResult{}
	}

	raw := make([]payload.Value, len(v.incoming))
	for i, m := range v.incoming {
		raw[i] = m.Content
	}
	aggregated := payload.Aggregate(raw)

	ctx := edge.ComputeContext{
		Value:              v.value,
		RawMessages:        raw,
		AggregatedMessages: aggregated,
		VertexID:           v.ID,
		Superstep:          v.superstep,
		OutgoingEdges:      v.edges,
	}

	result := v.fn(ctx)

	switch result.kind {
	case ResultHalt:
		v.active = false
		return computeResult{}

	case ResultUnchanged:
		v.active = false
		ctx.Value = v.value
		v.outgoing = append(v.outgoing, v.emit(ctx)...)
		return computeResult{}

	default: // ResultNewValue
		if result.payload.Equal(v.value) {
			// rule 2: a returned value equal to the current one is
			// "no change" even when it arrived via NewValue.
			v.active = false
			ctx.Value = v.value
			v.outgoing = append(v.outgoing, v.emit(ctx)...)
			return computeResult{}
		}
		merged := payload.Merge(aggregated, result.payload)
		v.value = merged
		ctx.Value = merged
		v.outgoing = append(v.outgoing, v.emit(ctx)...)
		// active is left as-is: a vertex the engine computed is still
		// active, so it computes again next round and auto-halts there
		// if nothing arrived in the meantime.
		return computeResult{}
	}
}

// emit builds the outgoing messages for ctx.Value across every outgoing
// edge whose condition passes, evaluated against ctx (with Value already
// updated to the just-computed value). Must be called with the vertex's
// state already locked (i.e. from within computeLocked).
func (v *Vertex) emit(ctx edge.ComputeContext) []*message.Message {
	msgs := make([]*message.Message, 0, len(v.edgeOrder))
	for _, target := range v.edgeOrder {
		e := v.edges[target]
		if !v.shouldSend(e, ctx) {
			continue
		}
		msgs = append(msgs, message.New(v.ID, target, ctx.Value, v.superstep))
	}
	return msgs
}

// shouldSend evaluates e's condition, treating both "no condition" and any
// recovered panic from the condition itself as "send" / "never send"
// respectively — a condition that raises is a safe default of "do not
// send", logged for debugging rather than aborting the round.
func (v *Vertex) shouldSend(e *edge.Edge, ctx edge.ComputeContext) (ok bool) {
	if e.Condition == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			v.Logf("edge %s->%s: condition panicked: %v (treated as DeliveryWarning, not sending)", e.Source, e.Target, r)
			ok = false
		}
	}()
	return e.Condition(ctx)
}
