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

// Package metrics exposes the engine's Prometheus collectors. It never
// starts an HTTP server or registers against the default registry — the
// caller owns the *prometheus.Registry and decides if/how it is served.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles one engine's instrumentation. The zero value is not
// usable; build one with New.
type Collectors struct {
	SuperstepDuration prometheus.Histogram
	ActiveVertices    prometheus.Gauge
	MessagesDelivered prometheus.Counter
	RoundsRun         prometheus.Counter
}

// New builds and registers a Collectors set against reg, labeled with
// graphID so multiple engines sharing a registry stay distinguishable.
func New(reg *prometheus.Registry, graphID string) *Collectors {
	c := &Collectors{
		SuperstepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "pregel",
			Subsystem:   "engine",
			Name:        "superstep_duration_seconds",
			Help:        "Wall-clock time to execute one superstep's five phases.",
			ConstLabels: prometheus.Labels{"graph_id": graphID},
			Buckets:     prometheus.DefBuckets,
		}),
		ActiveVertices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pregel",
			Subsystem:   "engine",
			Name:        "active_vertices",
			Help:        "Number of vertices left active at the end of the most recent superstep.",
			ConstLabels: prometheus.Labels{"graph_id": graphID},
		}),
		MessagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pregel",
			Subsystem:   "engine",
			Name:        "messages_delivered_total",
			Help:        "Messages successfully handed to a recipient's inbox.",
			ConstLabels: prometheus.Labels{"graph_id": graphID},
		}),
		RoundsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pregel",
			Subsystem:   "engine",
			Name:        "rounds_run_total",
			Help:        "Supersteps executed, across all Run and ExecuteSuperstep calls.",
			ConstLabels: prometheus.Labels{"graph_id": graphID},
		}),
	}
	if reg != nil {
		reg.MustRegister(c.SuperstepDuration, c.ActiveVertices, c.MessagesDelivered, c.RoundsRun)
	}
	return c
}
