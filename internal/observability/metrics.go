// Package observability owns the Prometheus collectors exported on /metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trainingcal"

// Month load results.
const (
	ResultOK     = "ok"
	ResultError  = "error"
	ResultCached = "cached"
	ResultStale  = "stale"
)

var (
	monthLoadCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "calendar",
		Name:      "month_loads_total",
		Help:      "Month calendar loads grouped by result.",
	}, []string{"result"})

	monthLoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "calendar",
		Name:      "month_load_duration_seconds",
		Help:      "Latency of uncached month loads, both source fetches included.",
		Buckets:   prometheus.DefBuckets,
	})

	sourceFetchErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "calendar",
		Name:      "source_fetch_errors_total",
		Help:      "Failed source collection fetches grouped by source.",
	}, []string{"source"})

	cacheEventCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "events_total",
		Help:      "Month cache hits, misses and invalidations.",
	}, []string{"event"})

	eventsPublishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Assignment change events published, grouped by action and result.",
	}, []string{"action", "result"})

	eventsConsumedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "consumed_total",
		Help:      "Assignment change events consumed, grouped by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		monthLoadCounter,
		monthLoadDuration,
		sourceFetchErrorCounter,
		cacheEventCounter,
		eventsPublishedCounter,
		eventsConsumedCounter,
	)
}

// RecordMonthLoad counts a month load and, for fetched results, observes its latency.
func RecordMonthLoad(result string, elapsed time.Duration) {
	monthLoadCounter.WithLabelValues(result).Inc()
	if result == ResultOK || result == ResultError {
		monthLoadDuration.Observe(elapsed.Seconds())
	}
}

func RecordSourceFetchError(source string) {
	sourceFetchErrorCounter.WithLabelValues(source).Inc()
}

func RecordCacheHit()        { cacheEventCounter.WithLabelValues("hit").Inc() }
func RecordCacheMiss()       { cacheEventCounter.WithLabelValues("miss").Inc() }
func RecordCacheInvalidate() { cacheEventCounter.WithLabelValues("invalidate").Inc() }

func RecordEventPublished(action string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	eventsPublishedCounter.WithLabelValues(action, result).Inc()
}

func RecordEventConsumed(result string) {
	eventsConsumedCounter.WithLabelValues(result).Inc()
}

// MonthLoads exposes the counter for tests.
func MonthLoads(result string) prometheus.Counter {
	return monthLoadCounter.WithLabelValues(result)
}

// CacheEvents exposes the counter for tests.
func CacheEvents(event string) prometheus.Counter {
	return cacheEventCounter.WithLabelValues(event)
}

// EventsConsumed exposes the counter for tests.
func EventsConsumed(result string) prometheus.Counter {
	return eventsConsumedCounter.WithLabelValues(result)
}
