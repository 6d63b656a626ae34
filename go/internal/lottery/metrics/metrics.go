package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registration results
const (
	ResultAccepted  = "accepted"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
)

// Draw results
const (
	DrawWinner = "winner"
	DrawEmpty  = "empty"
)

// Collector defines the interface for collecting lottery metrics
type Collector interface {
	RecordRegistration(result string)
	RecordParticipants(count int)
	RecordSnapshot(success bool, duration time.Duration)
	RecordExtension()
	RecordDraw(result string)
}

// NoOpCollector is a no-op implementation for when metrics aren't needed
type NoOpCollector struct{}

func (NoOpCollector) RecordRegistration(result string) {}
func (NoOpCollector) RecordParticipants(count int) {}
func (NoOpCollector) RecordSnapshot(success bool, duration time.Duration) {}
func (NoOpCollector) RecordExtension() {}
func (NoOpCollector) RecordDraw(result string) {}

// PrometheusMetrics implements Collector on a private registry
type PrometheusMetrics struct {
	registry *prometheus.Registry

	registrations    *prometheus.CounterVec
	participants     prometheus.Gauge
	snapshots        *prometheus.CounterVec
	snapshotDuration prometheus.Histogram
	extensions       prometheus.Counter
	draws            *prometheus.CounterVec
}

// NewPrometheusMetrics creates and registers the lottery collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lottery",
			Name:      "registrations_total",
			Help:      "Usernames submitted, by result.",
		}, []string{"result"}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lottery",
			Name:      "participants",
			Help:      "Current number of registered participants.",
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lottery",
			Name:      "snapshots_total",
			Help:      "Snapshot writes, by status.",
		}, []string{"status"}),
		snapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lottery",
			Name:      "snapshot_duration_seconds",
			Help:      "Time spent writing a snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		extensions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lottery",
			Name:      "deadline_extensions_total",
			Help:      "Times the registration deadline was extended.",
		}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lottery",
			Name:      "draws_total",
			Help:      "Winner draws, by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.registrations,
		m.participants,
		m.snapshots,
		m.snapshotDuration,
		m.extensions,
		m.draws,
	)
	return m
}

func (m *PrometheusMetrics) RecordRegistration(result string) {
	m.registrations.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) RecordParticipants(count int) {
	m.participants.Set(float64(count))
}

func (m *PrometheusMetrics) RecordSnapshot(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.snapshots.WithLabelValues(status).Inc()
	m.snapshotDuration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordExtension() {
	m.extensions.Inc()
}

func (m *PrometheusMetrics) RecordDraw(result string) {
	m.draws.WithLabelValues(result).Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node_exporter textfile collector.
func (m *PrometheusMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
