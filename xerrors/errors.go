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

// Package xerrors collects the error kinds surfaced by the engine's public
// API. Nothing here ever panics across a package boundary; callers branch on
// the sentinel values with errors.Is, or on the typed values with errors.As.
package xerrors

import (
	"fmt"

	errwrap "github.com/pkg/errors"
)

// NotFound sentinels. Compare with errors.Is.
var (
	ErrGraphNotFound        = fmt.Errorf("graph_not_found")
	ErrVertexNotFound       = fmt.Errorf("vertex_not_found")
	ErrEdgeNotFound         = fmt.Errorf("edge_not_found")
	ErrFinalVertexNotFound  = fmt.Errorf("final_vertex_not_found")
)

// InvalidState sentinels.
var (
	ErrGraphRunning    = fmt.Errorf("graph is running, vertex CRUD is forbidden")
	ErrEndpointMissing = fmt.Errorf("edge endpoint does not exist")
	ErrDuplicateGraph  = fmt.Errorf("graph id already in use")
	ErrMultipleFinal   = fmt.Errorf("graph already has a final vertex")
	ErrDuplicateVertexName = fmt.Errorf("vertex name already used in this graph")
)

// ErrUnknownVertex is a NotFound sentinel for a builder referencing a
// logical vertex name it never registered.
var ErrUnknownVertex = fmt.Errorf("vertex name not registered in this graph")

// BoundedFailure is returned by a Run that hit one of its two independent
// limits. Round is the superstep counter at the moment the limit tripped.
type BoundedFailure struct {
	Timeout bool // true if it was the timeout, false if max supersteps
	Round   int
}

func (e *BoundedFailure) Error() string {
	if e.Timeout {
		return fmt.Sprintf("timeout_exceeded{round=%d}", e.Round)
	}
	return fmt.Sprintf("max_supersteps_exceeded{round=%d}", e.Round)
}

// NewMaxSuperstepsExceeded builds the BoundedFailure for a tripped round cap.
func NewMaxSuperstepsExceeded(round int) error {
	return &BoundedFailure{Timeout: false, Round: round}
}

// NewTimeoutExceeded builds the BoundedFailure for a tripped wall clock.
func NewTimeoutExceeded(round int) error {
	return &BoundedFailure{Timeout: true, Round: round}
}

// UserFunctionFailure wraps whatever a user compute function returned or
// panicked with. It is always fatal to the round that produced it.
type UserFunctionFailure struct {
	VertexID string
	Superstep int
	Cause    error
}

func (e *UserFunctionFailure) Error() string {
	return fmt.Sprintf("vertex %s: compute failed at superstep %d: %v", e.VertexID, e.Superstep, e.Cause)
}

// Unwrap lets errors.Is/As reach the underlying cause.
func (e *UserFunctionFailure) Unwrap() error { return e.Cause }

// Wrapf adds context to err in the teacher's errwrap convention. Returns nil
// if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errwrap.Wrapf(err, format, args...)
}
