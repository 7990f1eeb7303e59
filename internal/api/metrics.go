package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookbook_upstream_requests_total",
			Help: "Total number of requests sent to the recipe endpoints",
		},
		[]string{"op", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cookbook_upstream_request_duration_seconds",
			Help:    "Latency of requests sent to the recipe endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	searchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookbook_search_outcomes_total",
			Help: "Total number of searches by outcome",
		},
		[]string{"status"},
	)
)

func observeUpstream(op, status string, duration time.Duration) {
	upstreamRequestsTotal.WithLabelValues(op, status).Inc()
	upstreamRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
}
