package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculation outcomes recorded in agentcost_calculations_total.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Metrics holds the Prometheus collectors for the API. Each Service owns
// its registry so tests can run in parallel.
type Metrics struct {
	registry *prometheus.Registry

	calculations       *prometheus.CounterVec
	validationFailures prometheus.Counter
	duration           prometheus.Histogram
	missingModels      *prometheus.CounterVec
	storedEstimates    prometheus.Gauge
	pruned             prometheus.Counter
	templateReloads    *prometheus.CounterVec
}

// NewMetrics registers the API metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcost",
			Name:      "calculations_total",
			Help:      "Calculation requests by project type and outcome.",
		}, []string{"project_type", "outcome"}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agentcost",
			Name:      "validation_failures_total",
			Help:      "Requests rejected by field validation.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agentcost",
			Name:      "calculation_duration_seconds",
			Help:      "Time spent in the calculation engine.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		missingModels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcost",
			Name:      "missing_models_total",
			Help:      "Calculations that referenced a model absent from the catalog.",
		}, []string{"model"}),
		storedEstimates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agentcost",
			Name:      "stored_estimates",
			Help:      "Estimates currently held in the history store.",
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agentcost",
			Name:      "pruned_estimates_total",
			Help:      "Estimates deleted by the retention schedule.",
		}),
		templateReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcost",
			Name:      "template_reloads_total",
			Help:      "Template file reloads by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.calculations,
		m.validationFailures,
		m.duration,
		m.missingModels,
		m.storedEstimates,
		m.pruned,
		m.templateReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordCalculation counts one calculation and its engine time.
func (m *Metrics) RecordCalculation(projectType, outcome string, d time.Duration) {
	m.calculations.WithLabelValues(projectType, outcome).Inc()
	if outcome == OutcomeSuccess {
		m.duration.Observe(d.Seconds())
	}
}

// RecordValidationFailure counts a request rejected by validation.
func (m *Metrics) RecordValidationFailure(projectType string) {
	m.validationFailures.Inc()
	m.calculations.WithLabelValues(projectType, OutcomeInvalid).Inc()
}

// RecordMissingModels counts each model id the catalog could not price.
func (m *Metrics) RecordMissingModels(ids []string) {
	for _, id := range ids {
		m.missingModels.WithLabelValues(id).Inc()
	}
}

// SetStoredEstimates updates the stored estimate gauge.
func (m *Metrics) SetStoredEstimates(n int64) {
	m.storedEstimates.Set(float64(n))
}

// RecordPruned counts estimates removed by retention.
func (m *Metrics) RecordPruned(n int64) {
	m.pruned.Add(float64(n))
}

// RecordTemplateReload counts a template reload attempt.
func (m *Metrics) RecordTemplateReload(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	m.templateReloads.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
