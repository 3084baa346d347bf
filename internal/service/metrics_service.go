package service

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// MetricsNamespace prefixes every series exported by the service.
const MetricsNamespace = "course_registration"

// MetricsService owns a private Prometheus registry with HTTP, cache, query
// and demand-tracking series. All methods are safe on a nil receiver.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheLookups *prometheus.HistogramVec
	cacheWrite   prometheus.Histogram
	cacheHits    atomic.Uint64
	cacheMisses  atomic.Uint64

	dbQueryDuration *prometheus.HistogramVec

	interestToggles     *prometheus.CounterVec
	aggregations        *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	demandClasses       *prometheus.GaugeVec
}

// NewMetricsService builds the registry. Each instance is independent, so
// tests may create as many as they need.
func NewMetricsService() *MetricsService {
	m := &MetricsService{registry: prometheus.NewRegistry()}

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	m.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route template and status.",
	}, []string{"method", "path", "status"})

	m.cacheLookups = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: "cache",
		Name:      "lookup_seconds",
		Help:      "Catalog cache lookups by result.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"result"})
	m.cacheWrite = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: "cache",
		Name:      "write_seconds",
		Help:      "Catalog cache write latency.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})
	hitRatio := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: "cache",
		Name:      "hit_ratio",
		Help:      "Share of catalog cache lookups served from cache since start.",
	}, m.cacheHitRatio)

	m.dbQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "db_query_duration_seconds",
		Help:      "Duration of instrumented database operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	m.interestToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "interest_toggles_total",
		Help:      "Committed interest toggles by resulting action.",
	}, []string{"action"})
	m.aggregations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "demand_aggregations_total",
		Help:      "Demand aggregation passes by result.",
	}, []string{"result"})
	m.aggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "demand_aggregation_duration_seconds",
		Help:      "Wall time of a demand aggregation pass.",
		Buckets:   prometheus.DefBuckets,
	})
	m.demandClasses = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "demand_status_classes",
		Help:      "Classes per demand status after the last successful aggregation.",
	}, []string{"status"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration, m.requestTotal,
		m.cacheLookups, m.cacheWrite, hitRatio,
		m.dbQueryDuration,
		m.interestToggles, m.aggregations, m.aggregationDuration, m.demandClasses,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records one request against its route template.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// RecordCacheOperation records a lookup as hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
	m.cacheLookups.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *MetricsService) cacheHitRatio() float64 {
	hits, misses := m.cacheHits.Load(), m.cacheMisses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// ObserveCacheWrite tracks cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records the timing of a labelled database operation.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordInterestToggle counts a committed toggle.
func (m *MetricsService) RecordInterestToggle(interested bool) {
	if m == nil {
		return
	}
	action := "removed"
	if interested {
		action = "added"
	}
	m.interestToggles.WithLabelValues(action).Inc()
}

// ObserveAggregation records an aggregation pass. Status gauges are only
// refreshed when the pass succeeded.
func (m *MetricsService) ObserveAggregation(err error, duration time.Duration, summaries []models.DemandSummary) {
	if m == nil {
		return
	}
	m.aggregationDuration.Observe(duration.Seconds())
	if err != nil {
		m.aggregations.WithLabelValues("error").Inc()
		return
	}
	m.aggregations.WithLabelValues("success").Inc()

	counts := map[models.DemandStatus]int{
		models.DemandNormal: 0,
		models.DemandNear:   0,
		models.DemandFull:   0,
	}
	for _, s := range summaries {
		counts[s.DemandStatus]++
	}
	for status, n := range counts {
		m.demandClasses.WithLabelValues(string(status)).Set(float64(n))
	}
}
