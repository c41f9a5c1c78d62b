// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeterProvider(t *testing.T) *metric.ManualReader {
	t.Helper()
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))

	Init(provider)

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	return reader
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordQuery_IncrementsCounterAndHistogram(t *testing.T) {
	reader := setupTestMeterProvider(t)

	RecordQuery(OutcomeMatched, 5*time.Millisecond)
	RecordQuery(OutcomeNoMatch, time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counter := findMetric(rm, "lexforge.query.resolutions")
	require.NotNil(t, counter)
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	histogram := findMetric(rm, "lexforge.query.duration")
	require.NotNil(t, histogram)
}

func TestRecordDispatch_LabelsMatchedVsNoMatch(t *testing.T) {
	reader := setupTestMeterProvider(t)

	RecordDispatch(true)
	RecordDispatch(false)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counter := findMetric(rm, "lexforge.dispatch.sentences")
	require.NotNil(t, counter)
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)
}

func TestRecordSave_IncrementsCounter(t *testing.T) {
	reader := setupTestMeterProvider(t)

	RecordSave(OutcomeSuccess)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counter := findMetric(rm, "lexforge.store.saves")
	require.NotNil(t, counter)
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
}

func TestStartSpan_ReturnsNonNilSpan(t *testing.T) {
	_, span := StartSpan(context.Background(), "test.span")
	defer span.End()
	require.NotNil(t, span)
}
