// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package otelmx exports the matching events as OpenTelemetry
// counters. The Recorder implements the matchinguc.Recorder interface
// and NewMeterProvider creates a meter provider which pushes the
// recorded metrics to an OTLP/HTTP collector periodically.
package otelmx

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the name of the meter which is used by the
// Recorder instances.
const InstrumentationName = "github.com/momeni/phoenix"

// Recorder counts the searches, returns, cancellations, and storage
// failures of the matching engine.
type Recorder struct {
	searches        metric.Int64Counter
	returns         metric.Int64Counter
	cancellations   metric.Int64Counter
	storageFailures metric.Int64Counter
}

// New creates the Recorder instruments using mp meter provider.
func New(mp metric.MeterProvider) (*Recorder, error) {
	meter := mp.Meter(InstrumentationName)
	r := &Recorder{}
	var err error
	r.searches, err = meter.Int64Counter(
		"phoenix.searches",
		metric.WithDescription("Number of searches by their outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating searches counter: %w", err)
	}
	r.returns, err = meter.Int64Counter(
		"phoenix.returns",
		metric.WithDescription("Number of vehicle returns by their outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating returns counter: %w", err)
	}
	r.cancellations, err = meter.Int64Counter(
		"phoenix.cancellations",
		metric.WithDescription("Number of cancelled pending searches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cancellations counter: %w", err)
	}
	r.storageFailures, err = meter.Int64Counter(
		"phoenix.storage_failures",
		metric.WithDescription("Number of rolled back store writes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating storage failures counter: %w", err)
	}
	return r, nil
}

// SearchDone counts a search which was assigned, queued, or rejected.
func (r *Recorder) SearchDone(
	ctx context.Context,
	outcome model.SearchOutcome,
	category model.CategoryID,
) {
	r.searches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome.String()),
		attribute.Int64("category", int64(category)),
	))
}

// ReturnDone counts a return which was stored, reassigned, or rejected.
func (r *Recorder) ReturnDone(
	ctx context.Context,
	outcome model.ReturnOutcome,
	category model.CategoryID,
) {
	r.returns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome.String()),
		attribute.Int64("category", int64(category)),
	))
}

func (r *Recorder) Cancelled(ctx context.Context) {
	r.cancellations.Add(ctx, 1)
}

func (r *Recorder) StorageFailed(ctx context.Context, op string) {
	r.storageFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
	))
}
