// Package metrics registers the Prometheus instruments of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReviewsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_ingested_total",
			Help: "Total number of reviews accepted through the public form",
		},
		[]string{"company"},
	)

	WebhookDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_dispatches_total",
			Help: "Webhook notification dispatch outcomes",
		},
		[]string{"outcome"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method and status class",
		},
		[]string{"method", "status"},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(ReviewsIngested)
	prometheus.MustRegister(WebhookDispatches)
	prometheus.MustRegister(HTTPRequests)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
