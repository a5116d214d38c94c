package monitoring

import (
	"time"

	"playgate/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	// Counters
	playbackDecisionsTotal *prometheus.CounterVec
	admissionsTotal        *prometheus.CounterVec
	evictionsTotal         prometheus.Counter
	invariantViolations    prometheus.Counter

	// Gauges
	liveSessions *prometheus.GaugeVec

	// Histograms
	playbackDecisionDuration prometheus.Histogram
	storeOperationDuration   *prometheus.HistogramVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		playbackDecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "playgate_playback_decisions_total",
			Help: "Playback decisions by outcome",
		}, []string{"outcome"}),

		admissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "playgate_device_admissions_total",
			Help: "Device admission attempts by result",
		}, []string{"result"}),

		evictionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "playgate_device_evictions_total",
			Help: "Explicit device sign-outs",
		}),

		invariantViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "playgate_invariant_violations_total",
			Help: "Store-consistency violations detected after admission",
		}),

		liveSessions: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "playgate_live_sessions",
			Help: "Live device sessions per plan",
		}, []string{"plan"}),

		playbackDecisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "playgate_playback_decision_duration_seconds",
			Help:    "End-to-end playback decision latency",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),

		storeOperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playgate_store_operation_duration_seconds",
			Help:    "Backing store operation latency",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"store", "operation"}),
	}
}

func (p *PrometheusCollector) RecordDecision(outcome domain.PlaybackOutcome, duration time.Duration) {
	p.playbackDecisionsTotal.WithLabelValues(string(outcome)).Inc()
	p.playbackDecisionDuration.Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordAdmission(admitted bool) {
	result := "blocked"
	if admitted {
		result = "accepted"
	}
	p.admissionsTotal.WithLabelValues(result).Inc()
}

func (p *PrometheusCollector) RecordEviction() {
	p.evictionsTotal.Inc()
}

func (p *PrometheusCollector) RecordInvariantViolation() {
	p.invariantViolations.Inc()
}

func (p *PrometheusCollector) SetLiveSessions(plan domain.PlanName, count int) {
	p.liveSessions.WithLabelValues(string(plan)).Set(float64(count))
}

func (p *PrometheusCollector) RecordStoreOperation(store, operation string, duration time.Duration) {
	p.storeOperationDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
}
