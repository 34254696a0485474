package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/school-records-api/internal/models"
)

const metricsNamespace = "school_records"

// MetricsService owns the Prometheus registry and keeps running totals for
// the JSON snapshot.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	cacheOps     *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	storeQueries *prometheus.HistogramVec
	marks        prometheus.Counter
	grades       prometheus.Counter
	rejections   *prometheus.CounterVec
	divergences  prometheus.Counter
	auditDropped prometheus.Counter

	totals struct {
		requests     atomic.Uint64
		requestNanos atomic.Uint64
		cacheHits    atomic.Uint64
		cacheMisses  atomic.Uint64
		queries      atomic.Uint64
		queryNanos   atomic.Uint64
		marks        atomic.Uint64
		grades       atomic.Uint64
		rejections   atomic.Uint64
		divergences  atomic.Uint64
	}
}

// NewMetricsService registers every collector on a private registry.
func NewMetricsService() *MetricsService {
	m := &MetricsService{registry: prometheus.NewRegistry()}

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "API requests served.",
	}, []string{"method", "route", "status"})

	m.cacheOps = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "report_cache",
		Name:      "operation_seconds",
		Help:      "Latency of report card cache reads and writes.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	}, []string{"op"})
	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "report_cache",
		Name:      "lookups_total",
		Help:      "Report card cache lookups by result.",
	}, []string{"result"})

	m.storeQueries = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "store",
		Name:      "query_duration_seconds",
		Help:      "Latency of record store reads issued by the report aggregator.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	m.marks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "attendance_marks_written_total",
		Help:      "Attendance marks inserted or overwritten.",
	})
	m.grades = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "grades_recorded_total",
		Help:      "Grades persisted.",
	})
	m.rejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "validation_rejections_total",
		Help:      "Submissions refused before reaching the record store.",
	}, []string{"operation"})
	m.divergences = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "report_average_divergence_total",
		Help:      "Course subjects whose computed average differs from the store view.",
	})
	m.auditDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "audit_events_dropped_total",
		Help:      "Audit events that could not be queued.",
	})

	m.registry.MustRegister(
		m.httpDuration, m.httpRequests,
		m.cacheOps, m.cacheLookups,
		m.storeQueries,
		m.marks, m.grades, m.rejections, m.divergences, m.auditDropped,
		collectors.NewGoCollector(),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.totals.requests.Add(1)
	m.totals.requestNanos.Add(uint64(duration))
}

// RecordCacheOperation records a report card cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues("get").Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		m.totals.cacheHits.Add(1)
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
	m.totals.cacheMisses.Add(1)
}

func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues("set").Observe(duration.Seconds())
}

func (m *MetricsService) ObserveDBQuery(query string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeQueries.WithLabelValues(query).Observe(duration.Seconds())
	m.totals.queries.Add(1)
	m.totals.queryNanos.Add(uint64(duration))
}

// AddAttendanceMarks counts marks written by one batch.
func (m *MetricsService) AddAttendanceMarks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.marks.Add(float64(n))
	m.totals.marks.Add(uint64(n))
}

func (m *MetricsService) IncGradesRecorded() {
	if m == nil {
		return
	}
	m.grades.Inc()
	m.totals.grades.Add(1)
}

// IncValidationRejection counts a submission refused before any store call.
func (m *MetricsService) IncValidationRejection(operation string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(operation).Inc()
	m.totals.rejections.Add(1)
}

func (m *MetricsService) AddReportDivergences(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.divergences.Add(float64(n))
	m.totals.divergences.Add(uint64(n))
}

func (m *MetricsService) IncAuditDropped() {
	if m == nil {
		return
	}
	m.auditDropped.Inc()
}

// Snapshot returns the running totals.
func (m *MetricsService) Snapshot() models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{}
	}
	hits, misses := m.totals.cacheHits.Load(), m.totals.cacheMisses.Load()
	requests, queries := m.totals.requests.Load(), m.totals.queries.Load()

	snap := models.MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: averageMillis(m.totals.requestNanos.Load(), requests),
		CacheHits:                hits,
		CacheMisses:              misses,
		AttendanceMarksWritten:   m.totals.marks.Load(),
		GradesRecorded:           m.totals.grades.Load(),
		ValidationRejections:     m.totals.rejections.Load(),
		ReportDivergences:        m.totals.divergences.Load(),
		DBQueryCount:             queries,
		AverageDBQueryDurationMs: averageMillis(m.totals.queryNanos.Load(), queries),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
	if lookups := hits + misses; lookups > 0 {
		snap.CacheHitRatio = float64(hits) / float64(lookups)
	}
	return snap
}

func averageMillis(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
