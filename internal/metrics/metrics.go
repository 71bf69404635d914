// Package metrics counts what a passmetrics run did and can dump the counters
// in Prometheus text format for a node_exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "passmetrics"

// Manager owns the registry and the counters for one process.
type Manager struct {
	registry *prometheus.Registry

	tablesLoaded       *prometheus.CounterVec // by source: file, cache
	eventsLoaded       prometheus.Counter
	delimiterFallbacks prometheus.Counter
	loadFailures       prometheus.Counter
	passesClassified   prometheus.Counter
	progressivePasses  prometheus.Counter
	receiverMisses     prometheus.Counter
	passesByCategory   *prometheus.CounterVec
}

// New creates a Manager with its own registry.
func New() *Manager {
	m := &Manager{
		registry: prometheus.NewRegistry(),
		tablesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "tables_loaded_total",
			Help: "Match tables loaded, by source (file or cache).",
		}, []string{"source"}),
		eventsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_loaded_total",
			Help: "Event rows loaded.",
		}),
		delimiterFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "delimiter_fallbacks_total",
			Help: "Tables that needed the semicolon delimiter.",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "load_failures_total",
			Help: "Tables that could not be read or parsed.",
		}),
		passesClassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "passes_classified_total",
			Help: "Pass events run through the classifier.",
		}),
		progressivePasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "progressive_passes_total",
			Help: "Passes classified as progressive.",
		}),
		receiverMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "receiver_lookup_misses_total",
			Help: "Passes whose next event could not be found.",
		}),
		passesByCategory: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "passes_displayed_total",
			Help: "Displayed passes by category.",
		}, []string{"category"}),
	}
	m.registry.MustRegister(
		m.tablesLoaded, m.eventsLoaded, m.delimiterFallbacks, m.loadFailures,
		m.passesClassified, m.progressivePasses, m.receiverMisses, m.passesByCategory,
	)
	return m
}

// Registry exposes the underlying gatherer.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// TableLoaded records a successful load; fromCache tells whether the load
// cache served it.
func (m *Manager) TableLoaded(fromCache bool, rows int, delimiter string) {
	source := "file"
	if fromCache {
		source = "cache"
	}
	m.tablesLoaded.WithLabelValues(source).Inc()
	m.eventsLoaded.Add(float64(rows))
	if delimiter == ";" {
		m.delimiterFallbacks.Inc()
	}
}

// LoadFailed records a table that yielded no data.
func (m *Manager) LoadFailed() { m.loadFailures.Inc() }

// PassesClassified records a classifier run.
func (m *Manager) PassesClassified(total, progressive int) {
	m.passesClassified.Add(float64(total))
	m.progressivePasses.Add(float64(progressive))
}

// ReceiverMisses records unresolved receivers.
func (m *Manager) ReceiverMisses(n int) { m.receiverMisses.Add(float64(n)) }

// PassesDisplayed records the size of a display category.
func (m *Manager) PassesDisplayed(category string, n int) {
	m.passesByCategory.WithLabelValues(category).Add(float64(n))
}

// WriteTextfile writes all counters to path atomically.
func (m *Manager) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
