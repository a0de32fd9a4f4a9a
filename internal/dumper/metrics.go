package dumper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classdumper_imports_total",
			Help: "Number of binaries run through the import pipeline, by result.",
		},
		[]string{"result"},
	)

	importDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classdumper_import_duration_seconds",
			Help:    "Duration of import pipeline runs in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	importedHeadersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classdumper_imported_headers_total",
			Help: "Number of header records persisted by imports.",
		},
	)
)

func observeImport(r *ImportResult, d time.Duration) {
	result := "success"
	switch {
	case r.Alert != nil && r.Alert.Benign():
		result = "nothing_to_parse"
	case r.Alert != nil:
		result = "error"
	}
	importsTotal.WithLabelValues(result).Inc()
	importDuration.Observe(d.Seconds())
	importedHeadersTotal.Add(float64(r.Imported))
}
