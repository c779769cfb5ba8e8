// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/phoenix/pkg/adapter/config/settings"
	"github.com/momeni/phoenix/pkg/adapter/telemetry/otelmx"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultExportInterval is the OTLP metrics export interval by default.
const DefaultExportInterval = 30 * time.Second

// Telemetry contains the metrics related settings.
type Telemetry struct {
	// OTLPEndpoint is the host:port of an OTLP/HTTP collector.
	// Metrics are not exported when it is empty.
	OTLPEndpoint string `yaml:"otlp-endpoint"`

	// Interval is the period of exporting metrics to OTLPEndpoint.
	Interval *settings.Duration

	// Prometheus indicates if the /metrics route should be served.
	Prometheus *bool
}

// ValidateAndNormalize fills the default values and checks that the
// export interval is positive.
func (t *Telemetry) ValidateAndNormalize() error {
	settings.Nil2Zero(&t.Prometheus)
	settings.Default(&t.Interval, settings.Duration(DefaultExportInterval))
	if *t.Interval <= 0 {
		return fmt.Errorf("non-positive export interval: %v", *t.Interval)
	}
	return nil
}

// NewMeterProvider creates the OTLP exporting meter provider and
// registers it globally. A nil provider is returned when no endpoint
// is configured, so the global no-op provider stays in effect.
func (t Telemetry) NewMeterProvider(
	ctx context.Context,
) (*sdkmetric.MeterProvider, error) {
	if t.OTLPEndpoint == "" {
		return nil, nil
	}
	return otelmx.NewMeterProvider(
		ctx, t.OTLPEndpoint, t.Interval.Std(),
	)
}
