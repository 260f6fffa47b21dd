// Package metrics provides Prometheus metrics for the PTCGP data API.
// Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcgp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ptcgp_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Dataset Metrics
	CardDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptcgp_card_database_size",
			Help: "Number of cards in the loaded dataset",
		},
	)

	SetDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptcgp_set_database_size",
			Help: "Number of sets in the loaded dataset",
		},
	)

	// Query Engine Metrics
	CardQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ptcgp_card_query_duration_seconds",
			Help:    "Time taken to filter and shape card query results",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"endpoint"}, // "filter" or "search"
	)

	// Image Probe Metrics
	ImageProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcgp_image_probes_total",
			Help: "Image HEAD probe outcomes by resolved quality",
		},
		[]string{"quality"}, // "high" or "low"
	)

	ImageProbeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptcgp_image_probe_cache_hits_total",
			Help: "Image probe cache hit count",
		},
	)

	ImageProbeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptcgp_image_probe_cache_misses_total",
			Help: "Image probe cache miss count",
		},
	)

	// Store Metrics
	StoreWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcgp_store_writes_total",
			Help: "Write operations against the mutable stores",
		},
		[]string{"store"}, // "users", "decks", "groups"
	)
)
