// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package prommx exposes the fleet state as Prometheus gauges.
// The Collector takes one snapshot of the fleet statistics per scrape,
// so all gauges of a scrape are consistent with each other.
package prommx

import (
	"net/http"

	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsSource provides the fleet statistics and the number of queued
// dispatcher tasks. The ok flag is false while the application is not
// loaded, so no gauges are reported.
type StatsSource interface {
	Stats() (st model.FleetStats, queued int, ok bool)
}

// Collector is a prometheus.Collector for the fleet gauges.
type Collector struct {
	src StatsSource

	pending  *prometheus.Desc
	sessions *prometheus.Desc
	vehicles *prometheus.Desc
	queued   *prometheus.Desc
}

// NewCollector creates a Collector which reads the src statistics.
func NewCollector(src StatsSource) *Collector {
	return &Collector{
		src: src,
		pending: prometheus.NewDesc(
			"phoenix_pending_requests",
			"Number of searches which wait for a vehicle.",
			nil, nil,
		),
		sessions: prometheus.NewDesc(
			"phoenix_active_sessions",
			"Number of logged in sessions.",
			nil, nil,
		),
		vehicles: prometheus.NewDesc(
			"phoenix_vehicles",
			"Number of vehicles by their location kind.",
			[]string{"location"}, nil,
		),
		queued: prometheus.NewDesc(
			"phoenix_dispatcher_queued_tasks",
			"Number of tasks which wait for a dispatcher worker.",
			nil, nil,
		),
	}
}

// Describe implements the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pending
	ch <- c.sessions
	ch <- c.vehicles
	ch <- c.queued
}

// Collect implements the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st, queued, ok := c.src.Stats()
	if !ok {
		return
	}
	gauge := func(d *prometheus.Desc, v int, labels ...string) {
		ch <- prometheus.MustNewConstMetric(
			d, prometheus.GaugeValue, float64(v), labels...,
		)
	}
	gauge(c.pending, st.Pending)
	gauge(c.sessions, st.Sessions)
	gauge(c.vehicles, st.Parked, "parked")
	gauge(c.vehicles, st.Assigned, "assigned")
	gauge(c.vehicles, st.InTransit, "in-transit")
	gauge(c.queued, queued)
}

// Handler registers a Collector for src in a fresh registry, besides
// the Go runtime and process collectors, and returns an http.Handler
// which serves that registry in the Prometheus exposition format.
func Handler(src StatsSource) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		NewCollector(src),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
