// Package metrics provides Prometheus metrics for the barcarate transfer service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Core business metrics
	evaluations        *prometheus.CounterVec
	evaluationLatency  prometheus.Histogram
	finalRatings       prometheus.Histogram
	recommendations    *prometheus.CounterVec
	analysisLatency    prometheus.Histogram
	activeWeaknesses   prometheus.Gauge
	rosterPlayers      prometheus.Gauge
	cacheLookups       *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	shortlistSize      prometheus.Gauge
	shortlistUpdates   prometheus.Counter
	shortlistQueryTime prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueTotal  prometheus.Counter
	queueDequeueTotal  prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// Tracing
	spanDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "barcarate",
		subsystem:        "transfers",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(m.counterOpts("evaluations_total",
		"Transfer evaluations by outcome (scored, existing_player, invalid_candidate)"), []string{"outcome"})
	m.evaluationLatency = auto.NewHistogram(m.histogramOpts("evaluation_latency_milliseconds",
		"Time spent scoring a single candidate", nil))
	m.finalRatings = auto.NewHistogram(m.histogramOpts("final_rating",
		"Distribution of final display ratings", []float64{1, 2, 3, 4, 5, 5.5, 6, 7, 8, 9, 9.5}))
	m.recommendations = auto.NewCounterVec(m.counterOpts("recommendations_total",
		"Evaluations by recommendation tier"), []string{"tier"})
	m.analysisLatency = auto.NewHistogram(m.histogramOpts("analysis_latency_milliseconds",
		"Time spent analysing the squad", nil))
	m.activeWeaknesses = auto.NewGauge(m.gaugeOpts("active_weaknesses",
		"Number of weakness labels raised by the latest squad analysis"))
	m.rosterPlayers = auto.NewGauge(m.gaugeOpts("roster_players",
		"Number of players in the loaded roster"))
	m.cacheLookups = auto.NewCounterVec(m.counterOpts("cache_lookups_total",
		"Evaluation cache lookups by backend and result"), []string{"backend", "result"})
	m.submissions = auto.NewCounterVec(m.counterOpts("submissions_total",
		"Async candidate submissions by status"), []string{"status"})
	m.shortlistSize = auto.NewGauge(m.gaugeOpts("shortlist_size",
		"Number of candidates on the shortlist"))
	m.shortlistUpdates = auto.NewCounter(m.counterOpts("shortlist_updates_total",
		"Shortlist entries inserted or improved"))
	m.shortlistQueryTime = auto.NewHistogram(m.histogramOpts("shortlist_query_latency_milliseconds",
		"Latency of shortlist rank and top-N queries", nil))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", nil), []string{"endpoint", "method", "status_code"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued submissions"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum number of queued submissions"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue size divided by capacity"))
	m.queueEnqueueTotal = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Submissions enqueued"))
	m.queueDequeueTotal = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Submissions handed to workers"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total",
		"Submissions rejected by the queue (full, closed or cancelled)"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of running workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Time from dequeue to shortlist update", nil))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Submissions that failed in a worker"))

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of failed operations", nil), []string{"component", "error_type"})

	m.spanDuration = auto.NewHistogramVec(m.histogramOpts("span_duration_milliseconds",
		"Duration of finished trace spans", nil), []string{"span"})
}

// RecordEvaluation counts one evaluation by outcome.
func RecordEvaluation(outcome string) {
	globalManager.evaluations.WithLabelValues(outcome).Inc()
}

// RecordEvaluationLatency records scoring latency in milliseconds.
func RecordEvaluationLatency(latencyMs float64) {
	globalManager.evaluationLatency.Observe(latencyMs)
}

// RecordFinalRating observes a final rating and its tier.
func RecordFinalRating(rating float64, tier string) {
	globalManager.finalRatings.Observe(rating)
	globalManager.recommendations.WithLabelValues(tier).Inc()
}

// RecordAnalysisLatency records squad analysis latency in milliseconds.
func RecordAnalysisLatency(latencyMs float64) {
	globalManager.analysisLatency.Observe(latencyMs)
}

// UpdateActiveWeaknesses sets the number of weakness labels currently raised.
func UpdateActiveWeaknesses(count int) {
	globalManager.activeWeaknesses.Set(float64(count))
}

// UpdateRosterPlayers sets the roster size.
func UpdateRosterPlayers(count int) {
	globalManager.rosterPlayers.Set(float64(count))
}

// RecordCacheHit counts a cache hit for the backend.
func RecordCacheHit(backend string) {
	globalManager.cacheLookups.WithLabelValues(backend, "hit").Inc()
}

// RecordCacheMiss counts a cache miss for the backend.
func RecordCacheMiss(backend string) {
	globalManager.cacheLookups.WithLabelValues(backend, "miss").Inc()
}

// RecordSubmission counts an async submission by status (accepted, duplicate, rejected).
func RecordSubmission(status string) {
	globalManager.submissions.WithLabelValues(status).Inc()
}

// UpdateShortlistSize sets the number of shortlisted candidates.
func UpdateShortlistSize(count int) {
	globalManager.shortlistSize.Set(float64(count))
}

// RecordShortlistUpdate increments the shortlist updates counter.
func RecordShortlistUpdate() {
	globalManager.shortlistUpdates.Inc()
}

// RecordShortlistQueryLatency records rank/top-N latency in milliseconds.
func RecordShortlistQueryLatency(latencyMs float64) {
	globalManager.shortlistQueryTime.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueTotal.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueTotal.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records per-submission processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an HTTP error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// RecordSpanDuration records the duration of a finished trace span.
func RecordSpanDuration(span string, latencyMs float64) {
	globalManager.spanDuration.WithLabelValues(span).Observe(latencyMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
