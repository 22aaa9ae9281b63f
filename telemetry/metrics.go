package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/mars-rover/mission/engine"
)

const namespace = "marsrover"

// Metrics holds the Prometheus collectors for the mission server
type Metrics struct {
	registry *prometheus.Registry

	missionsExecuted   *prometheus.CounterVec
	commandsProcessed  *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	missionDuration    *prometheus.HistogramVec
	activeSessions     prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		missionsExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "missions_executed_total",
				Help:      "Total number of missions executed, by source and result",
			},
			[]string{"source", "result"},
		),
		commandsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_processed_total",
				Help:      "Total number of command characters processed, by outcome",
			},
			[]string{"outcome"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of rejected mission requests, by error code",
			},
			[]string{"code"},
		),
		missionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "mission_duration_seconds",
				Help:      "Time spent executing a mission",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"source"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of rover sessions held in memory",
			},
		),
	}

	registry.MustRegister(
		m.missionsExecuted,
		m.commandsProcessed,
		m.validationFailures,
		m.missionDuration,
		m.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveMission records one executed mission or command batch
func (m *Metrics) ObserveMission(source string, summary engine.Summary, elapsed time.Duration) {
	m.missionsExecuted.WithLabelValues(source, MissionResult(summary)).Inc()
	m.missionDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.commandsProcessed.WithLabelValues(string(engine.OutcomeMoved)).Add(float64(summary.Moves))
	m.commandsProcessed.WithLabelValues(string(engine.OutcomeBlocked)).Add(float64(summary.Blocked))
	m.commandsProcessed.WithLabelValues("turned").Add(float64(summary.Turns))
	m.commandsProcessed.WithLabelValues(string(engine.OutcomeIgnored)).Add(float64(summary.Ignored))
}

// Mission results
const (
	ResultClean   = "clean"
	ResultBlocked = "blocked"
	ResultIgnored = "ignored"
)

// MissionResult classifies a mission: blocked if any move hit the plateau
// edge, ignored if unknown commands were skipped, clean otherwise.
func MissionResult(summary engine.Summary) string {
	switch {
	case summary.Blocked > 0:
		return ResultBlocked
	case summary.Ignored > 0:
		return ResultIgnored
	}
	return ResultClean
}

// ObserveValidationFailure records a rejected request
func (m *Metrics) ObserveValidationFailure(code string) {
	if code == "" {
		code = "unknown"
	}
	m.validationFailures.WithLabelValues(code).Inc()
}

// SetActiveSessions updates the session gauge
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
