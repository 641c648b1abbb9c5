// Package metrics exposes Prometheus collectors for the resolver pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolution outcomes
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamesense_resolutions_total",
		Help: "Total resolve calls by outcome.",
	}, []string{"outcome"}) // outcome: cache_hit, resolved, not_found, error

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamesense_cache_hits_total",
		Help: "Resolutions answered from the cache.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamesense_cache_misses_total",
		Help: "Resolutions that had to query the catalog.",
	})

	// Catalog performance
	CatalogRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamesense_catalog_request_duration_seconds",
		Help:    "Duration of catalog search requests in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// Asset downloads
	AssetDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamesense_asset_downloads_total",
		Help: "Asset download attempts by kind and result.",
	}, []string{"kind", "result"}) // result: ok, absent, error
)

// ObserveCatalogRequest records the time taken by one catalog search.
func ObserveCatalogRequest(start time.Time) {
	CatalogRequestDuration.Observe(time.Since(start).Seconds())
}

// RecordAssetDownload counts one asset fetch attempt.
func RecordAssetDownload(kind, result string) {
	AssetDownloads.WithLabelValues(kind, result).Inc()
}

// RecordResolution counts one resolve call outcome.
func RecordResolution(outcome string) {
	Resolutions.WithLabelValues(outcome).Inc()
}
