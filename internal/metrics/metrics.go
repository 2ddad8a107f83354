// Package metrics exposes optional Prometheus counters for the indexer.
// Grounded on vjache-cie's cmd/cie/index.go, which wires
// github.com/prometheus/client_golang/prometheus/promhttp into its index
// command; sourceminder reuses the same dependency, off by default per
// spec.md's non-goal on an always-on observability layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilesIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sourceminder_files_indexed_total",
		Help: "Total number of files successfully reindexed.",
	})
	FilesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sourceminder_files_failed_total",
		Help: "Total number of files that failed to parse or index.",
	})
	SymbolsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sourceminder_symbols_emitted_total",
		Help: "Total number of symbol rows emitted across all indexed files.",
	})
	IndexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "sourceminder_index_duration_seconds",
		Help: "Per-file indexing duration in seconds.",
	})
)

// Serve starts a blocking HTTP server exposing /metrics. Callers run it in
// its own goroutine; it is only started when --metrics-addr is set.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
