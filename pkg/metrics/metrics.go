package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global metric handles. promauto registers everything on the default
// registry, so the HTTP server only has to mount promhttp.

var (
	// FrameDuration measures one full pipeline pass (sim -> zoom -> zones
	// -> clamp -> fade). Buckets sized for a 60 Hz budget: anything past
	// ~16ms is a dropped frame.
	FrameDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kartograph_frame_duration_seconds",
			Help:    "Duration of one navigation frame",
			Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.1, 0.5},
		},
	)

	// FramesTotal counts pipeline passes.
	FramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kartograph_frames_total",
			Help: "Total number of navigation frames computed",
		},
	)

	// SimAlpha tracks the simulation cooling factor.
	SimAlpha = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kartograph_sim_alpha",
			Help: "Current force simulation alpha",
		},
	)

	// SimSafetyStops counts hard stops from the wall-clock safety timeout.
	SimSafetyStops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kartograph_sim_safety_stops_total",
			Help: "Simulations halted by the safety timeout",
		},
	)

	// VisibleNodes and PulledNodes describe the last frame's output.
	VisibleNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kartograph_visible_nodes",
			Help: "Nodes with non-zero opacity in the last frame",
		},
	)
	PulledNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kartograph_pulled_nodes",
			Help: "Nodes clamped to the viewport edge in the last frame",
		},
	)

	// FocusChanges counts focus interactions.
	FocusChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kartograph_focus_changes_total",
			Help: "Focus state replacements (including clears)",
		},
	)

	// HTTP metrics, recorded by the server's logging middleware.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kartograph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kartograph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)
)
