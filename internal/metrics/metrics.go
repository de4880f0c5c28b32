// Package metrics exposes Prometheus collectors for the conversation
// store and HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the service's Prometheus collectors around a dedicated
// registry so tests can run with isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	conversationSaves   *prometheus.CounterVec
	conversationSkips   prometheus.Counter
	searchQueries       prometheus.Counter
	recordsRegenerated  prometheus.Counter
	storeErrors         *prometheus.CounterVec
	saveDurationSeconds prometheus.Histogram
}

// New creates a Metrics instance registered on the given registry.
// A nil registry gets a fresh one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		conversationSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ideasense",
			Name:      "conversation_saves_total",
			Help:      "Conversations persisted, labelled by assigned category.",
		}, []string{"category"}),
		conversationSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ideasense",
			Name:      "conversation_save_skips_total",
			Help:      "Save calls skipped because the transcript was too short.",
		}),
		searchQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ideasense",
			Name:      "conversation_searches_total",
			Help:      "Free-text history searches performed.",
		}),
		recordsRegenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ideasense",
			Name:      "conversation_records_regenerated_total",
			Help:      "Records whose derived metadata was recomputed.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ideasense",
			Name:      "store_errors_total",
			Help:      "Storage failures by operation kind.",
		}, []string{"op"}),
		saveDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ideasense",
			Name:      "conversation_save_duration_seconds",
			Help:      "Latency of the save pipeline including persistence.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}),
	}

	registry.MustRegister(
		m.conversationSaves,
		m.conversationSkips,
		m.searchQueries,
		m.recordsRegenerated,
		m.storeErrors,
		m.saveDurationSeconds,
	)
	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ConversationSaved(category string) {
	m.conversationSaves.WithLabelValues(category).Inc()
}

func (m *Metrics) ConversationSkipped() {
	m.conversationSkips.Inc()
}

func (m *Metrics) SearchPerformed() {
	m.searchQueries.Inc()
}

func (m *Metrics) RecordsRegenerated(n int) {
	m.recordsRegenerated.Add(float64(n))
}

func (m *Metrics) StoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveSaveDuration(seconds float64) {
	m.saveDurationSeconds.Observe(seconds)
}
