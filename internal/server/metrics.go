package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classdumper_http_requests_total",
			Help: "Number of HTTP requests, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classdumper_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	liveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classdumper_live_connections",
			Help: "Number of open live view websocket connections.",
		},
	)

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classdumper_file_cache_hits_total",
		Help: "Number of file lookups served from the cache.",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classdumper_file_cache_misses_total",
		Help: "Number of file lookups that went to the store.",
	})

	cachePurgesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classdumper_file_cache_purges_total",
		Help: "Number of times the file cache was purged after a store change.",
	})
)
