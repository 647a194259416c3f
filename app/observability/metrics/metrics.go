package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RegisterRequestsTotal        metric.Int64Counter
	SubscriptionChecksTotal      metric.Int64Counter
	DailyContentFetchesTotal     metric.Int64Counter
	ProgressActionsTotal         metric.Int64Counter
	ExternalVerseFailuresTotal   metric.Int64Counter
	DbQueryDurationSeconds       metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("EncontroDiario")
		var err error
		m := &AppMetrics{}

		m.RegisterRequestsTotal, err = meter.Int64Counter(
			"register_requests_total",
			metric.WithDescription("Total number of register requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create register_requests_total: %v", err)
		}

		m.SubscriptionChecksTotal, err = meter.Int64Counter(
			"subscription_checks_total",
			metric.WithDescription("Total number of subscription status evaluations"),
			metric.WithUnit("{check}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create subscription_checks_total: %v", err)
		}

		m.DailyContentFetchesTotal, err = meter.Int64Counter(
			"daily_content_fetches_total",
			metric.WithDescription("Total number of daily content requests served"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create daily_content_fetches_total: %v", err)
		}

		m.ProgressActionsTotal, err = meter.Int64Counter(
			"progress_actions_total",
			metric.WithDescription("Total number of tracked engagement actions"),
			metric.WithUnit("{action}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create progress_actions_total: %v", err)
		}

		m.ExternalVerseFailuresTotal, err = meter.Int64Counter(
			"external_verse_failures_total",
			metric.WithDescription("Total number of failed external verse lookups (fell back to local)"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create external_verse_failures_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance; InitAppMetrics must run first.
func Get() *AppMetrics {
	return appMetrics
}

// RecordDBQuery observes the elapsed time of a database query, tagged with
// the logical operation name. No-op when metrics are not initialized, so
// repositories under pgxmock tests need no metric setup.
func RecordDBQuery(ctx context.Context, operation string, start time.Time) {
	m := Get()
	if m == nil {
		return
	}
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("db.operation", operation)))
}
