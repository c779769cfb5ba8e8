package otelmx_test

import (
	"context"
	"testing"

	"github.com/momeni/phoenix/pkg/adapter/telemetry/otelmx"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/usecase/matchinguc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var _ matchinguc.Recorder = (*otelmx.Recorder)(nil)

func collect(
	t *testing.T, reader sdkmetric.Reader,
) map[string]metricdata.Sum[int64] {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := make(map[string]metricdata.Sum[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = s
			}
		}
	}
	return sums
}

func valueOf(s metricdata.Sum[int64], kv ...attribute.KeyValue) int64 {
	want := attribute.NewSet(kv...)
	for _, dp := range s.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r, err := otelmx.New(mp)
	require.NoError(t, err)

	ctx := context.Background()
	r.SearchDone(ctx, model.SearchAssigned, 1)
	r.SearchDone(ctx, model.SearchAssigned, 1)
	r.SearchDone(ctx, model.SearchQueued, 2)
	r.ReturnDone(ctx, model.ReturnReassigned, 2)
	r.Cancelled(ctx)
	r.StorageFailed(ctx, "claim")

	sums := collect(t, reader)
	searches := sums["phoenix.searches"]
	assert.True(t, searches.IsMonotonic)
	assert.EqualValues(t, 2, valueOf(searches,
		attribute.String("outcome", model.SearchAssigned.String()),
		attribute.Int64("category", 1),
	))
	assert.EqualValues(t, 1, valueOf(searches,
		attribute.String("outcome", model.SearchQueued.String()),
		attribute.Int64("category", 2),
	))
	assert.EqualValues(t, 1, valueOf(sums["phoenix.returns"],
		attribute.String("outcome", model.ReturnReassigned.String()),
		attribute.Int64("category", 2),
	))
	assert.EqualValues(t, 1, valueOf(sums["phoenix.cancellations"]))
	assert.EqualValues(t, 1, valueOf(sums["phoenix.storage_failures"],
		attribute.String("op", "claim"),
	))
}
