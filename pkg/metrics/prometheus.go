// Package metrics provides Prometheus metrics for the prediction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Prediction path.
	predictions       *prometheus.CounterVec // by method
	predictionErrors  *prometheus.CounterVec // by kind
	predictionLatency prometheus.Histogram

	// Training path.
	trainingRuns     *prometheus.CounterVec // by outcome
	trainingDuration prometheus.Histogram
	activeModels     prometheus.Gauge
	trainQueueSize   prometheus.Gauge

	// Ingestion.
	matchesIngested  prometheus.Counter
	matchesDuplicate prometheus.Counter

	// Record store scale.
	teamsTracked     prometheus.Gauge
	completedMatches prometheus.Gauge

	// HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets overrides the latency buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps the scrape surface limited to our own instruments.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// GetRegistry returns the registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a metrics manager and registers all instruments.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rugby",
		subsystem:        "predictor",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "predictions_total",
		Help: "Predictions served, by blending method",
	}, []string{"method"})

	m.predictionErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "prediction_errors_total",
		Help: "Failed prediction requests, by error kind",
	}, []string{"kind"})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "prediction_latency_milliseconds",
		Help:    "Predict call latency in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.trainingRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "training_runs_total",
		Help: "Training runs, by outcome (published, skipped, failed)",
	}, []string{"outcome"})

	m.trainingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "training_duration_milliseconds",
		Help:    "End-to-end training run duration in milliseconds",
		Buckets: []float64{100, 500, 1000, 5000, 15000, 60000, 300000},
	})

	m.activeModels = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "active_models",
		Help: "Leagues with a published model",
	})

	m.trainQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "train_queue_size",
		Help: "Retrain triggers waiting in the queue",
	})

	m.matchesIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "matches_ingested_total",
		Help: "Match records accepted by the ingest endpoint",
	})

	m.matchesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "matches_duplicate_total",
		Help: "Duplicate match records dropped at ingest",
	})

	m.teamsTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "teams_tracked",
		Help: "Teams known to the record store",
	})

	m.completedMatches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "completed_matches",
		Help: "Completed matches in the record store",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	return m
}

// Package-level helpers over the global manager.

// RecordPrediction counts one served prediction by blending method.
func RecordPrediction(method string) {
	globalManager.predictions.WithLabelValues(method).Inc()
}

// RecordPredictionError counts one failed prediction by error kind.
func RecordPredictionError(kind string) {
	globalManager.predictionErrors.WithLabelValues(kind).Inc()
}

// ObservePredictionLatency records one predict call latency in ms.
func ObservePredictionLatency(ms float64) {
	globalManager.predictionLatency.Observe(ms)
}

// RecordTrainingRun counts one training run by outcome.
func RecordTrainingRun(outcome string) {
	globalManager.trainingRuns.WithLabelValues(outcome).Inc()
}

// ObserveTrainingDuration records one training run duration in ms.
func ObserveTrainingDuration(ms float64) {
	globalManager.trainingDuration.Observe(ms)
}

// UpdateActiveModels sets the number of leagues with a published model.
func UpdateActiveModels(n int) {
	globalManager.activeModels.Set(float64(n))
}

// UpdateTrainQueueSize sets the current retrain queue depth.
func UpdateTrainQueueSize(n int) {
	globalManager.trainQueueSize.Set(float64(n))
}

// RecordMatchIngested counts one accepted match record.
func RecordMatchIngested() {
	globalManager.matchesIngested.Inc()
}

// RecordMatchDuplicate counts one duplicate match record.
func RecordMatchDuplicate() {
	globalManager.matchesDuplicate.Inc()
}

// UpdateStoreCounts sets record store scale gauges.
func UpdateStoreCounts(teams, completed int) {
	globalManager.teamsTracked.Set(float64(teams))
	globalManager.completedMatches.Set(float64(completed))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// ObserveHTTPRequestDuration records one HTTP request duration in ms.
func ObserveHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
