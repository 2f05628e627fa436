// Package metrics defines the Prometheus collectors shared across the
// service. Collectors register at init; the API server exposes them on
// /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProcessingAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "categorizer_processing_attempts_total",
			Help: "Total website processing attempts, labeled by outcome.",
		},
		[]string{"outcome"},
	)
	ProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "categorizer_processing_duration_seconds",
			Help:    "Duration of website processing attempts in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	WebsitesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "categorizer_websites_total",
			Help: "Total number of website records in the store.",
		},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "categorizer_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "categorizer_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_name"},
	)
	ChatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "categorizer_chat_messages_total",
			Help: "Total chat messages persisted, labeled by role.",
		},
		[]string{"role"},
	)
)

func init() {
	prometheus.MustRegister(ProcessingAttempts)
	prometheus.MustRegister(ProcessingDuration)
	prometheus.MustRegister(WebsitesTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(DBQueryDuration)
	prometheus.MustRegister(ChatMessagesTotal)
}
