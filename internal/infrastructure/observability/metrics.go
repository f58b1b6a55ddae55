package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AuthOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_outcomes_total",
			Help: "Authentication outcomes per request (authenticated, anonymous, rejected)",
		},
		[]string{"outcome"},
	)

	TokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "Refresh token exchanges by result",
		},
		[]string{"result"},
	)
)

// InitMetrics registers the auth counters and serves them on a side port,
// separate from the main API listener.
func InitMetrics() {
	prometheus.MustRegister(AuthOutcomes, TokenRefreshes)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		http.ListenAndServe(":9090", nil)
	}()
}
