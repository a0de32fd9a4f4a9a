package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classdumper_live_deliveries_total",
			Help: "Number of values delivered to live view observers.",
		},
		[]string{"view"},
	)

	queryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classdumper_live_query_errors_total",
			Help: "Number of live view evaluations that failed.",
		},
		[]string{"view"},
	)
)
