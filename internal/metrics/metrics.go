// Package metrics exposes the bot's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TrackedSessions is the number of sessions in the in-memory map.
	TrackedSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fromcord_sessions_tracked",
		Help: "Number of sessions currently tracked in memory",
	})

	// ActiveSessions is the number of sessions with a run in progress.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fromcord_sessions_active",
		Help: "Number of sessions with an active timed run",
	})

	// EventsFired counts schedule entries fired, by category.
	EventsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fromcord_events_fired_total",
		Help: "Schedule entries fired into session channels",
	}, []string{"category"})

	// SweepErrors counts per-session evaluation failures.
	SweepErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fromcord_sweep_errors_total",
		Help: "Per-session evaluation failures caught during sweeps",
	})

	// SweepDuration is the wall time of the last evaluator sweep.
	SweepDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fromcord_sweep_duration_microsec",
		Help: "Duration of the last evaluator sweep in microseconds",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
