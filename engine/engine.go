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

// Package engine drives a pgraph.Graph through the Pregel-style superstep
// loop: Compute, Drain, Deliver, Clear, Advance, repeated as a sequence of
// barriers until no vertex remains active or a bound trips. Every phase
// runs to completion across the whole vertex set before the next one
// starts — Compute and Deliver fan out and end in an errgroup.Wait()
// barrier; the other phases run sequentially on the caller's goroutine.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/Gearhartlove/pregel-ex/message"
	"github.com/Gearhartlove/pregel-ex/metrics"
	"github.com/Gearhartlove/pregel-ex/payload"
	"github.com/Gearhartlove/pregel-ex/pgraph"
	"github.com/Gearhartlove/pregel-ex/vertex"
	"github.com/Gearhartlove/pregel-ex/xerrors"
)

// DefaultConcurrency bounds the errgroup fan-out used in Compute and
// Deliver when the caller doesn't set Engine.Concurrency.
const DefaultConcurrency = 8

// Engine runs the superstep loop over one Graph.
type Engine struct {
	Graph *pgraph.Graph

	// Concurrency bounds the worker pool used to fan Compute and Deliver
	// out across vertices. Zero means DefaultConcurrency.
	Concurrency int

	Logf    func(format string, v ...interface{})
	Metrics *metrics.Collectors
}

// New builds an Engine over g. logf and m may both be nil.
func New(g *pgraph.Graph, logf func(format string, v ...interface{}), m *metrics.Collectors) *Engine {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Engine{Graph: g, Logf: logf, Metrics: m}
}

func (e *Engine) concurrency() int {
	if e.Concurrency > 0 {
		return e.Concurrency
	}
	return DefaultConcurrency
}

// RunConfig bounds a Run call. A nil field means "use the default"; a
// non-nil field is authoritative even when it points at the zero value, so
// RunConfig{MaxSupersteps: new-int-pointing-at-0} trips immediately instead
// of silently falling back to DefaultMaxSupersteps.
type RunConfig struct {
	MaxSupersteps *int
	Timeout       *time.Duration
}

// DefaultMaxSupersteps and DefaultTimeout match spec.md's bounded-run
// defaults: a run that never mentions limits still terminates.
const (
	DefaultMaxSupersteps = 1000
	DefaultTimeout       = 60 * time.Second
)

func (c RunConfig) maxSupersteps() int {
	if c.MaxSupersteps == nil {
		return DefaultMaxSupersteps
	}
	return *c.MaxSupersteps
}

func (c RunConfig) timeout() time.Duration {
	if c.Timeout == nil {
		return DefaultTimeout
	}
	return *c.Timeout
}

// ExecuteSuperstep runs exactly one round of the five phases and returns
// the number of vertices left active afterward (0 means the graph has
// converged). A UserFunctionFailure anywhere in Compute aborts the round
// immediately and is returned as-is; delivery failures are collected as
// warnings and logged, never returned.
func (e *Engine) ExecuteSuperstep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		if e.Metrics != nil {
			e.Metrics.SuperstepDuration.Observe(time.Since(start).Seconds())
			e.Metrics.RoundsRun.Inc()
		}
	}()

	all := e.Graph.ListVertices()

	var active []*vertex.Vertex
	for _, v := range all {
		if v.IsActive() {
			active = append(active, v)
		}
	}

	// Phase 1: Compute, fanned out across the active set with a shared
	// context so one user-function failure cancels the rest of the round.
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.concurrency())
	for _, v := range active {
		v := v
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return v.Compute()
		})
	}
	if err := grp.Wait(); err != nil {
		return len(active), err
	}

	// Phase 2: Drain outboxes. Every vertex is drained, not only the
	// active set, since an explicit SendMessage can enqueue onto a
	// dormant vertex's outbox between rounds.
	var outbox []*message.Message
	for _, v := range all {
		outbox = append(outbox, v.DrainOutbox()...)
	}

	// Phase 3: Deliver, grouped by recipient and fanned out the same way
	// as Compute. A message addressed to a vertex no longer in the graph
	// is a DeliveryWarning, not a fatal error.
	byRecipient := make(map[string][]*message.Message)
	for _, m := range outbox {
		byRecipient[m.Recipient] = append(byRecipient[m.Recipient], m)
	}

	var mu sync.Mutex
	var warnings error
	var delivered int
	dgrp, _ := errgroup.WithContext(ctx)
	dgrp.SetLimit(e.concurrency())
	for recipient, msgs := range byRecipient {
		recipient, msgs := recipient, msgs
		dgrp.Go(func() error {
			v, err := e.Graph.GetVertex(recipient)
			if err != nil {
				mu.Lock()
				warnings = multierror.Append(warnings, xerrors.Wrapf(err, "deliver to %s", recipient))
				mu.Unlock()
				return nil
			}
			v.Receive(msgs)
			mu.Lock()
			delivered += len(msgs)
			mu.Unlock()
			return nil
		})
	}
	_ = dgrp.Wait() // delivery never returns a fatal error, only collects warnings

	if e.Metrics != nil {
		e.Metrics.MessagesDelivered.Add(float64(delivered))
	}
	if warnings != nil {
		e.Logf("engine: superstep had delivery warnings: %v", warnings)
	}

	// Phase 4: Clear. Nothing further to reclaim — DrainOutbox already
	// emptied the outboxes and Receive appended to pending — but the
	// phase stays a named step so the five-phase barrier sequence in the
	// package doc matches the code one-for-one.

	// Phase 5: Advance.
	for _, v := range all {
		v.Advance()
	}

	var stillActive int
	for _, v := range all {
		if v.IsActive() {
			stillActive++
		}
	}
	if e.Metrics != nil {
		e.Metrics.ActiveVertices.Set(float64(stillActive))
	}

	return stillActive, nil
}

// Run drives ExecuteSuperstep to termination: no vertex active, or one of
// cfg's two independent limits trips, whichever comes first. The graph is
// fenced against vertex CRUD for the duration.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (int, error) {
	maxSupersteps := cfg.maxSupersteps()
	timeout := cfg.timeout()

	e.Graph.SetRunning(true)
	defer e.Graph.SetRunning(false)

	deadline := time.Now().Add(timeout)
	rounds := 0
	for {
		if rounds >= maxSupersteps {
			return rounds, xerrors.NewMaxSuperstepsExceeded(rounds)
		}
		if time.Now().After(deadline) {
			return rounds, xerrors.NewTimeoutExceeded(rounds)
		}

		roundCtx, cancel := context.WithDeadline(ctx, deadline)
		active, err := e.ExecuteSuperstep(roundCtx)
		cancel()
		if err == context.DeadlineExceeded && ctx.Err() == nil {
			// the run's own deadline passed while Compute was fanning out
			return rounds, xerrors.NewTimeoutExceeded(rounds)
		}
		rounds++
		if err != nil {
			return rounds, err
		}
		if active == 0 {
			return rounds, nil
		}
	}
}

// GetFinalValue returns the current value of the graph's unique TypeFinal
// vertex. It may be called mid-run or after Run returns.
func (e *Engine) GetFinalValue() (payload.Value, error) {
	id, ok := e.Graph.FinalVertexID()
	if !ok {
		return payload.Nil, xerrors.ErrFinalVertexNotFound
	}
	v, err := e.Graph.GetVertex(id)
	if err != nil {
		return payload.Nil, err
	}
	return v.GetState().Value, nil
}
