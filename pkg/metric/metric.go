// Package metric holds the prometheus collectors shared by the mailview packages.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheLookups counts parse cache lookups by result: "hit", "miss" or "shared" (joined an
	// in-flight load).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailview_cache_lookup_total",
			Help: "Parse cache lookups by result.",
		},
		[]string{"result"},
	)

	// CacheEvictions counts entries dropped from the cache, by capacity or explicit removal.
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mailview_cache_eviction_total",
			Help: "Parse cache entries evicted or removed.",
		},
	)

	// CacheLoadErrors counts loader failures; these are never cached.
	CacheLoadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mailview_cache_load_error_total",
			Help: "Parse cache loads that returned an error.",
		},
	)

	// ParseDuration observes how long message loads take, by outcome.
	ParseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailview_parse_duration_seconds",
			Help:    "Time to read and parse a message source.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"result"},
	)

	// HTTPRequests counts requests served by route name and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailview_http_request_total",
			Help: "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
