// Package metrics provides Prometheus instrumentation for the eligibility
// assessment engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values for assessment outcomes.
const (
	OutcomeEligible    = "eligible"
	OutcomeNotEligible = "not_eligible"
)

// Label values for rule resolution results.
const (
	ResolveComputed        = "computed"
	ResolveCacheHit        = "cache_hit"
	ResolveUnknownVertical = "unknown_vertical"
)

// Manager owns all Prometheus collectors for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Rule store
	ruleLoads      prometheus.Counter
	ruleLoadErrors prometheus.Counter
	ruleReloads    prometheus.Counter
	resolutions    *prometheus.CounterVec
	ruleCount      prometheus.Gauge

	// Evaluation and aggregation
	evaluations        *prometheus.CounterVec
	assessments        *prometheus.CounterVec
	blockingAttributes prometheus.Histogram
	assessmentDuration prometheus.Histogram
	evaluationWorkers  prometheus.Gauge

	// Measurement feeds
	duplicateMeasurements prometheus.Counter

	// Evidence export
	evidenceExports *prometheus.CounterVec
}

// Global manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "assessment",
		subsystem:        "eligibility",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.ruleLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rule_loads_total",
		Help:      "Total number of rule documents loaded and validated",
	})

	m.ruleLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rule_load_errors_total",
		Help:      "Total number of rule documents rejected at load time",
	})

	m.ruleReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rule_reloads_total",
		Help:      "Total number of rule documents swapped in by the file watcher",
	})

	m.resolutions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rule_resolutions_total",
			Help:      "Total number of vertical resolutions by result",
		},
		[]string{"result"},
	)

	m.ruleCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rules_loaded",
		Help:      "Number of attribute rules in the active document across all verticals",
	})

	m.evaluations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "attribute_evaluations_total",
			Help:      "Total number of attribute evaluations by verdict status",
		},
		[]string{"status"},
	)

	m.assessments = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "assessments_total",
			Help:      "Total number of completed assessments by outcome",
		},
		[]string{"outcome"},
	)

	m.blockingAttributes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "blocking_attributes_per_assessment",
		Help:      "Distribution of blocking attribute counts per assessment",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	m.assessmentDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessment_duration_milliseconds",
		Help:      "End-to-end assessment duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.evaluationWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_workers",
		Help:      "Configured parallelism for attribute evaluation",
	})

	m.duplicateMeasurements = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_measurements_total",
		Help:      "Total number of duplicate attribute records dropped from feeds",
	})

	m.evidenceExports = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "evidence_exports_total",
			Help:      "Total number of evidence bundles encoded by format",
		},
		[]string{"format"},
	)
}

// RecordRuleLoad increments the rule load counter.
func RecordRuleLoad() {
	globalManager.ruleLoads.Inc()
}

// RecordRuleLoadError increments the rule load error counter.
func RecordRuleLoadError() {
	globalManager.ruleLoadErrors.Inc()
}

// RecordRuleReload increments the watcher reload counter.
func RecordRuleReload() {
	globalManager.ruleReloads.Inc()
}

// RecordResolution records a vertical resolution with its result label.
func RecordResolution(result string) {
	globalManager.resolutions.WithLabelValues(result).Inc()
}

// UpdateRuleCount sets the number of rules in the active document.
func UpdateRuleCount(count int) {
	globalManager.ruleCount.Set(float64(count))
}

// RecordEvaluation records an attribute evaluation by verdict status.
func RecordEvaluation(status string) {
	globalManager.evaluations.WithLabelValues(status).Inc()
}

// RecordAssessment records a completed assessment by outcome.
func RecordAssessment(outcome string) {
	globalManager.assessments.WithLabelValues(outcome).Inc()
}

// RecordBlockingAttributes observes the blocking attribute count of one assessment.
func RecordBlockingAttributes(count int) {
	globalManager.blockingAttributes.Observe(float64(count))
}

// RecordAssessmentDuration records end-to-end assessment duration in milliseconds.
func RecordAssessmentDuration(ms float64) {
	globalManager.assessmentDuration.Observe(ms)
}

// UpdateEvaluationWorkers sets the configured evaluation parallelism.
func UpdateEvaluationWorkers(count int) {
	globalManager.evaluationWorkers.Set(float64(count))
}

// RecordDuplicateMeasurement increments the dropped duplicate record counter.
func RecordDuplicateMeasurement() {
	globalManager.duplicateMeasurements.Inc()
}

// RecordEvidenceExport records an evidence bundle encode by format.
func RecordEvidenceExport(format string) {
	globalManager.evidenceExports.WithLabelValues(format).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler returns an HTTP handler for the custom registry, for embedding
// services that expose a scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
