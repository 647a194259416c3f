package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordDBQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	InitAppMetrics()

	t.Run("ObservesElapsedDuration", func(t *testing.T) {
		RecordDBQuery(context.Background(), "users_meta.select", time.Now().Add(-50*time.Millisecond))

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))

		found := false
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name != "db_query_duration_seconds" {
					continue
				}
				hist, ok := m.Data.(metricdata.Histogram[float64])
				require.True(t, ok)
				require.NotEmpty(t, hist.DataPoints)
				assert.GreaterOrEqual(t, hist.DataPoints[0].Sum, 0.05)
				found = true
			}
		}
		assert.True(t, found, "db_query_duration_seconds was not collected")
	})

	t.Run("NoOpBeforeInit", func(t *testing.T) {
		saved := appMetrics
		appMetrics = nil
		defer func() { appMetrics = saved }()

		assert.NotPanics(t, func() {
			RecordDBQuery(context.Background(), "users_meta.select", time.Now())
		})
	})
}
