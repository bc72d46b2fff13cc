// Package metrics provides Prometheus metrics for the snowglobe frame loop.
//
// A nil *Manager is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const subsystem = "scene"

// defaultTickBuckets covers sub-millisecond ticks up to a missed 60Hz frame.
var defaultTickBuckets = []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066}

// Manager owns all scene metrics and the registry they live on.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	ticks            prometheus.Counter
	tickDuration     prometheus.Histogram
	gestures         *prometheus.CounterVec
	fireworksSpawned prometheus.Counter
	fireworksDropped prometheus.Counter
	activeBursts     prometheus.Gauge
	handFrames       *prometheus.CounterVec
	handClients      prometheus.Gauge
	collaboratorErrs *prometheus.CounterVec
}

// NewManager creates a metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "snowglobe",
		histogramBuckets: defaultTickBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.ticks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      "ticks_total",
		Help:      "Total number of frame loop ticks",
	})
	m.tickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      "tick_duration_seconds",
		Help:      "Time spent in one frame loop tick, excluding rendering",
		Buckets:   m.histogramBuckets,
	})
	m.gestures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      "gestures_total",
		Help:      "Classified gestures by kind, one per tick",
	}, []string{"kind"})
	m.fireworksSpawned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      "fireworks_spawned_total",
		Help:      "Firework bursts created",
	})
	m.fireworksDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      "fireworks_dropped_total",
		Help:      "Firework spawn requests dropped because the pool was full",
	})
	m.activeBursts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      "active_bursts",
		Help:      "Firework bursts currently in the pool",
	})
	m.handFrames = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "handtrack",
		Name:      "frames_total",
		Help:      "Hand-tracking messages received by result",
	}, []string{"result"})
	m.handClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "handtrack",
		Name:      "clients",
		Help:      "Connected hand-tracking websocket clients",
	})
	m.collaboratorErrs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      "collaborator_errors_total",
		Help:      "Failures caught at collaborator call sites",
	}, []string{"collaborator"})
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordTick records one frame loop tick and its duration in seconds.
func (m *Manager) RecordTick(seconds float64) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(seconds)
}

// RecordGesture counts one classified gesture.
func (m *Manager) RecordGesture(kind string) {
	if m == nil {
		return
	}
	m.gestures.WithLabelValues(kind).Inc()
}

// RecordFireworkSpawned counts one created burst.
func (m *Manager) RecordFireworkSpawned() {
	if m == nil {
		return
	}
	m.fireworksSpawned.Inc()
}

// RecordFireworkDropped counts one dropped spawn request.
func (m *Manager) RecordFireworkDropped() {
	if m == nil {
		return
	}
	m.fireworksDropped.Inc()
}

// SetActiveBursts updates the active burst gauge.
func (m *Manager) SetActiveBursts(n int) {
	if m == nil {
		return
	}
	m.activeBursts.Set(float64(n))
}

// RecordHandFrame counts one hand-tracking message; result is "ok",
// "empty" or "malformed".
func (m *Manager) RecordHandFrame(result string) {
	if m == nil {
		return
	}
	m.handFrames.WithLabelValues(result).Inc()
}

// AddHandClients adjusts the connected client gauge by delta.
func (m *Manager) AddHandClients(delta int) {
	if m == nil {
		return
	}
	m.handClients.Add(float64(delta))
}

// RecordCollaboratorError counts one caught collaborator failure.
func (m *Manager) RecordCollaboratorError(collaborator string) {
	if m == nil {
		return
	}
	m.collaboratorErrs.WithLabelValues(collaborator).Inc()
}
