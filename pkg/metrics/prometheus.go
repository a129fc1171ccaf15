// Package metrics provides Prometheus metrics for the skein recommender.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the skein service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Recommendation metrics
	recommendationsServed prometheus.Counter
	scoreLatency          prometheus.Histogram
	yarnsScored           prometheus.Counter
	patternLookupMisses   prometheus.Counter

	// Catalog metrics
	catalogPatterns     prometheus.Gauge
	catalogYarns        prometheus.Gauge
	catalogLoads        *prometheus.CounterVec
	catalogLoadErrors   *prometheus.CounterVec
	catalogLoadDuration *prometheus.HistogramVec

	// Climate metrics
	climateLookups *prometheus.CounterVec

	// Concurrency metrics
	scoreWorkers prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Hit pipeline metrics
	hitQueueSize        prometheus.Gauge
	hitQueueCapacity    prometheus.Gauge
	hitQueueUtilization prometheus.Gauge
	hitEnqueues         prometheus.Counter
	hitDrops            prometheus.Counter
	hitsRecorded        prometheus.Counter
	hitRecordLatency    prometheus.Histogram
	hitWorkers          prometheus.Gauge

	// Popularity metrics
	trackedPatterns            prometheus.Gauge
	popularitySnapshots        prometheus.Counter
	popularitySnapshotDuration prometheus.Histogram

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skein",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Recommendation metrics
	m.recommendationsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Total number of ranked recommendation lists served",
	})

	m.scoreLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_latency_milliseconds",
		Help:      "Histogram of full-catalog scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.yarnsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "yarns_scored_total",
		Help:      "Total number of individual yarn scorings performed",
	})

	m.patternLookupMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pattern_lookup_misses_total",
		Help:      "Total number of recommendation requests for unknown patterns",
	})

	// Catalog metrics
	m.catalogPatterns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_patterns",
		Help:      "Number of patterns in the loaded catalog snapshot",
	})

	m.catalogYarns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_yarns",
		Help:      "Number of yarns in the loaded catalog snapshot",
	})

	m.catalogLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "catalog_loads_total",
			Help:      "Total number of catalog loads by source kind",
		},
		[]string{"source"},
	)

	m.catalogLoadErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "catalog_load_errors_total",
			Help:      "Total number of failed catalog loads by source kind",
		},
		[]string{"source"},
	)

	m.catalogLoadDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "catalog_load_duration_milliseconds",
			Help:      "Catalog load duration in milliseconds by source kind",
			Buckets:   m.histogramBuckets,
		},
		[]string{"source"},
	)

	// Climate metrics
	m.climateLookups = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "climate_lookups_total",
			Help:      "Total number of location temperature lookups",
		},
		[]string{"location"},
	)

	// Concurrency metrics
	m.scoreWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_workers",
		Help:      "Number of goroutines used to fan out scoring",
	})

	// HTTP metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Hit pipeline metrics
	m.hitQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hit_queue_size",
		Help:      "Number of pattern request hits waiting in the queue",
	})

	m.hitQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hit_queue_capacity",
		Help:      "Configured capacity of the hit queue",
	})

	m.hitQueueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hit_queue_utilization",
		Help:      "Hit queue utilization ratio (0.0 to 1.0)",
	})

	m.hitEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hit_enqueues_total",
		Help:      "Total number of pattern request hits enqueued",
	})

	m.hitDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hit_drops_total",
		Help:      "Total number of hits dropped because the queue was full or closed",
	})

	m.hitsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hits_recorded_total",
		Help:      "Total number of hits recorded into the popularity tracker",
	})

	m.hitRecordLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hit_record_latency_milliseconds",
		Help:      "Histogram of hit recording latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.hitWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hit_workers",
		Help:      "Number of workers draining the hit queue",
	})

	// Popularity metrics
	m.trackedPatterns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "popularity_tracked_patterns",
		Help:      "Number of distinct patterns tracked by the popularity tracker",
	})

	m.popularitySnapshots = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "popularity_snapshots_total",
		Help:      "Total number of popularity snapshots published",
	})

	m.popularitySnapshotDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "popularity_snapshot_rebuild_milliseconds",
		Help:      "Histogram of popularity snapshot rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Error metrics
	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRecommendationServed increments the recommendations served counter.
func RecordRecommendationServed() {
	globalManager.recommendationsServed.Inc()
}

// RecordScoreLatency records full-catalog scoring latency in milliseconds.
func RecordScoreLatency(latencyMs float64) {
	globalManager.scoreLatency.Observe(latencyMs)
}

// RecordYarnsScored adds to the scored yarn counter.
func RecordYarnsScored(count int) {
	globalManager.yarnsScored.Add(float64(count))
}

// RecordPatternLookupMiss increments the unknown pattern counter.
func RecordPatternLookupMiss() {
	globalManager.patternLookupMisses.Inc()
}

// UpdateCatalogPatterns sets the pattern count of the loaded snapshot.
func UpdateCatalogPatterns(count int) {
	globalManager.catalogPatterns.Set(float64(count))
}

// UpdateCatalogYarns sets the yarn count of the loaded snapshot.
func UpdateCatalogYarns(count int) {
	globalManager.catalogYarns.Set(float64(count))
}

// RecordCatalogLoad increments the catalog load counter for a source kind.
func RecordCatalogLoad(source string) {
	globalManager.catalogLoads.WithLabelValues(source).Inc()
}

// RecordCatalogLoadError increments the failed load counter for a source kind.
func RecordCatalogLoadError(source string) {
	globalManager.catalogLoadErrors.WithLabelValues(source).Inc()
}

// RecordCatalogLoadDuration records a catalog load duration in milliseconds.
func RecordCatalogLoadDuration(source string, latencyMs float64) {
	globalManager.catalogLoadDuration.WithLabelValues(source).Observe(latencyMs)
}

// RecordClimateLookup increments the temperature lookup counter for a location.
func RecordClimateLookup(location string) {
	globalManager.climateLookups.WithLabelValues(location).Inc()
}

// UpdateScoreWorkers sets the scoring fan-out width.
func UpdateScoreWorkers(count int) {
	globalManager.scoreWorkers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateHitQueueSize sets the number of hits waiting in the queue.
func UpdateHitQueueSize(size int) {
	globalManager.hitQueueSize.Set(float64(size))
}

// UpdateHitQueueCapacity sets the configured hit queue capacity.
func UpdateHitQueueCapacity(capacity int) {
	globalManager.hitQueueCapacity.Set(float64(capacity))
}

// UpdateHitQueueUtilization sets the hit queue utilization ratio.
func UpdateHitQueueUtilization(utilization float64) {
	globalManager.hitQueueUtilization.Set(utilization)
}

// RecordHitEnqueue increments the enqueued hit counter.
func RecordHitEnqueue() {
	globalManager.hitEnqueues.Inc()
}

// RecordHitDrop increments the dropped hit counter.
func RecordHitDrop() {
	globalManager.hitDrops.Inc()
}

// RecordHitRecorded increments the recorded hit counter.
func RecordHitRecorded() {
	globalManager.hitsRecorded.Inc()
}

// RecordHitRecordLatency records hit recording latency in milliseconds.
func RecordHitRecordLatency(latencyMs float64) {
	globalManager.hitRecordLatency.Observe(latencyMs)
}

// UpdateHitWorkers sets the number of workers draining the hit queue.
func UpdateHitWorkers(count int) {
	globalManager.hitWorkers.Set(float64(count))
}

// UpdateTrackedPatterns sets the number of distinct patterns tracked.
func UpdateTrackedPatterns(count int) {
	globalManager.trackedPatterns.Set(float64(count))
}

// IncrementPopularitySnapshotCount increments the published snapshot counter.
func IncrementPopularitySnapshotCount() {
	globalManager.popularitySnapshots.Inc()
}

// RecordPopularitySnapshotRebuildDuration records a snapshot rebuild duration
// in milliseconds.
func RecordPopularitySnapshotRebuildDuration(latencyMs float64) {
	globalManager.popularitySnapshotDuration.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
