// SPDX-License-Identifier: Apache-2.0

// Package telemetry holds the package-level OpenTelemetry tracer and
// metric instruments used by the cmd/lexforge parse and query commands.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is shared by every component that starts a span for a query
// resolution or sentence dispatch.
var Tracer = otel.Tracer("lexforge")

// Outcome labels used across the Record* helpers below.
const (
	OutcomeMatched = "matched"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
	OutcomeSuccess = "success"
)

var (
	queriesResolved  metric.Int64Counter
	sentencesMatched metric.Int64Counter
	dictionarySaves  metric.Int64Counter
	queryDuration    metric.Float64Histogram
)

// Init initializes the package's metric instruments using provider.
// Call this once at startup with the configured MeterProvider; if
// never called, instruments fall back to the global NoOp meter on
// first use.
func Init(provider metric.MeterProvider) {
	initWithMeter(provider.Meter("lexforge"))
}

func initWithMeter(meter metric.Meter) {
	queriesResolved, _ = meter.Int64Counter( //nolint:errcheck // NoOp fallback is safe
		"lexforge.query.resolutions",
		metric.WithDescription("Number of query lines resolved"),
		metric.WithUnit("{query}"),
	)
	sentencesMatched, _ = meter.Int64Counter( //nolint:errcheck // NoOp fallback is safe
		"lexforge.dispatch.sentences",
		metric.WithDescription("Number of sentences dispatched to a pattern"),
		metric.WithUnit("{sentence}"),
	)
	dictionarySaves, _ = meter.Int64Counter( //nolint:errcheck // NoOp fallback is safe
		"lexforge.store.saves",
		metric.WithDescription("Number of dictionary save attempts"),
		metric.WithUnit("{save}"),
	)
	queryDuration, _ = meter.Float64Histogram( //nolint:errcheck // NoOp fallback is safe
		"lexforge.query.duration",
		metric.WithDescription("Query line resolution duration"),
		metric.WithUnit("s"),
	)
}

func ensureInitialized() {
	if queriesResolved == nil {
		initWithMeter(otel.Meter("lexforge"))
	}
}

// RecordQuery increments the query-resolution counter for outcome and
// records how long resolution took.
func RecordQuery(outcome string, duration time.Duration) {
	ensureInitialized()
	queriesResolved.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	queryDuration.Record(context.Background(), duration.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordDispatch increments the sentence-dispatch counter for whether a
// pattern matched.
func RecordDispatch(matched bool) {
	ensureInitialized()
	outcome := OutcomeNoMatch
	if matched {
		outcome = OutcomeMatched
	}
	sentencesMatched.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordSave increments the dictionary-save counter for outcome.
func RecordSave(outcome string) {
	ensureInitialized()
	dictionarySaves.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// StartSpan starts a span named name under the package tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
