// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BrowserSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "autoshare",
		Name:      "browser_sessions_active",
		Help:      "Number of browser sessions currently held by requests.",
	})
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoshare",
		Name:      "validations_total",
		Help:      "Session validations by result.",
	}, []string{"result"})
	AttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoshare",
		Name:      "post_attempts_total",
		Help:      "Posting attempts by outcome and failure reason.",
	}, []string{"outcome", "reason"})
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "autoshare",
		Name:      "post_run_duration_seconds",
		Help:      "Wall-clock duration of complete posting runs.",
		Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200},
	})
	StoriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoshare",
		Name:      "stories_total",
		Help:      "Story share requests by result.",
	}, []string{"result"})
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
