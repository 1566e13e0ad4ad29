package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	StreamDuration  *prometheus.HistogramVec
	StreamRequests  *prometheus.CounterVec
	IndexerRequests *prometheus.CounterVec
	IndexerErrors   *prometheus.CounterVec
	MetaRequests    *prometheus.CounterVec
	MetaErrors      *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		StreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "addon_stream_duration_seconds",
			Help:    "Duration of stream discovery requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"type"}),
		StreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "addon_stream_requests_total",
			Help: "Number of stream discovery requests",
		}, []string{"type"}),
		IndexerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jackett_indexer_requests_total",
			Help: "Number of torznab search requests per indexer",
		}, []string{"indexer"}),
		IndexerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jackett_indexer_errors_total",
			Help: "Number of failed torznab searches per indexer",
		}, []string{"indexer"}),
		MetaRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meta_provider_requests_total",
			Help: "Number of metadata provider lookups",
		}, []string{"provider"}),
		MetaErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meta_provider_errors_total",
			Help: "Number of failed metadata provider lookups",
		}, []string{"provider"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Number of cache hits",
		}, []string{"cache"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Number of cache misses",
		}, []string{"cache"}),
	}
}

func (m *Metrics) Register() {
	prometheus.MustRegister(m.StreamDuration)
	prometheus.MustRegister(m.StreamRequests)
	prometheus.MustRegister(m.IndexerRequests)
	prometheus.MustRegister(m.IndexerErrors)
	prometheus.MustRegister(m.MetaRequests)
	prometheus.MustRegister(m.MetaErrors)
	prometheus.MustRegister(m.CacheHits)
	prometheus.MustRegister(m.CacheMisses)
}
