// Package metrics registers the Prometheus instruments shared by the web
// server and the export worker. All helpers are safe to call before Init;
// they simply do nothing until the instruments exist.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "growfin_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	recordsCreated *prometheus.CounterVec
	recordsDeleted *prometheus.CounterVec

	aggregationLatency *prometheus.HistogramVec
	cacheEvents        *prometheus.CounterVec

	eventsPublished *prometheus.CounterVec

	exportJobs    *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	sheetsSyncTotal *prometheus.CounterVec
)

// Init registers all instruments with the default registry. Safe to call
// from every binary entrypoint; registration happens once.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, path and status code",
			},
			[]string{"method", "path", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		)

		recordsCreated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_created_total",
				Help: "Total ledger records created by kind",
			},
			[]string{"kind"},
		)
		recordsDeleted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_deleted_total",
				Help: "Total ledger records deleted by kind",
			},
			[]string{"kind"},
		)

		aggregationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "aggregation_duration_seconds",
				Help:    "Dashboard aggregation duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)
		cacheEvents = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dashboard_cache_events_total",
				Help: "Dashboard cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		eventsPublished = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "record_events_published_total",
				Help: "Record events published to the broker by result",
			},
			[]string{"result"},
		)

		exportJobs = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_jobs_total",
				Help: "Total export jobs by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_duration_seconds",
				Help:    "Export build duration in seconds by format",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)

		sheetsSyncTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sheets_sync_total",
				Help: "Google Sheets sync attempts by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			recordsCreated,
			recordsDeleted,
			aggregationLatency,
			cacheEvents,
			eventsPublished,
			exportJobs,
			exportLatency,
			sheetsSyncTotal,
		)
	})
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method, path).Observe(duration.Seconds())
	}
}

// IncRecordCreated increments the created counter for a record kind.
func IncRecordCreated(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if recordsCreated != nil {
		recordsCreated.WithLabelValues(kind).Inc()
	}
}

// IncRecordDeleted increments the deleted counter for a record kind.
func IncRecordDeleted(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if recordsDeleted != nil {
		recordsDeleted.WithLabelValues(kind).Inc()
	}
}

// ObserveAggregation records the duration of one dashboard aggregation.
func ObserveAggregation(operation string, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	if aggregationLatency != nil {
		aggregationLatency.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// IncCacheHit records a dashboard cache hit.
func IncCacheHit() {
	if cacheEvents != nil {
		cacheEvents.WithLabelValues("hit").Inc()
	}
}

// IncCacheMiss records a dashboard cache miss.
func IncCacheMiss() {
	if cacheEvents != nil {
		cacheEvents.WithLabelValues("miss").Inc()
	}
}

// IncEventPublished records a publish attempt outcome.
func IncEventPublished(result string) {
	if result == "" {
		result = resultSuccess
	}
	if eventsPublished != nil {
		eventsPublished.WithLabelValues(result).Inc()
	}
}

// ObserveExport records one export job.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportJobs != nil {
		exportJobs.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// IncSheetsSync records a Google Sheets sync attempt outcome.
func IncSheetsSync(result string) {
	if result == "" {
		result = resultSuccess
	}
	if sheetsSyncTotal != nil {
		sheetsSyncTotal.WithLabelValues(result).Inc()
	}
}

// Exported result constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
