package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine client Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchprovider",
			Name:      "engine_requests_total",
			Help:      "Total number of search engine requests",
		},
		[]string{"op", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchprovider",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	IndexedDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchprovider",
			Name:      "indexed_documents_total",
			Help:      "Documents submitted for indexing by outcome",
		},
		[]string{"document_type", "result"}, // "succeeded" / "failed"
	)

	SortFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchprovider",
			Name:      "sort_fallback_total",
			Help:      "Searches served by the master index because the sorted replica was missing",
		},
		[]string{"document_type"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers search engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestsTotal)
	prometheus.MustRegister(EngineRequestDuration)
	prometheus.MustRegister(IndexedDocumentsTotal)
	prometheus.MustRegister(SortFallbackTotal)
	engineMetricsRegistered = true
}
