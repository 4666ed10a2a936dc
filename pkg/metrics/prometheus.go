package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes DivScout domain metrics via Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	fetchLatency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divscout_provider_requests_total",
				Help: "Outbound market-data provider requests by outcome",
			},
			[]string{"provider", "endpoint", "outcome"},
		),
		fallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divscout_fallbacks_total",
				Help: "Per-symbol lookups resolved by each data source",
			},
			[]string{"source"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divscout_record_cache_total",
				Help: "Dividend record cache lookups",
			},
			[]string{"result"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "divscout_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "divscout_fetch_duration_seconds",
				Help:    "Duration of per-symbol dividend data resolution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
}

// RecordProviderRequest records an outbound provider request outcome.
func (r *Recorder) RecordProviderRequest(provider, endpoint, outcome string) {
	r.providerRequests.WithLabelValues(provider, endpoint, outcome).Inc()
}

// RecordResolution records which source answered a symbol lookup.
func (r *Recorder) RecordResolution(source string) {
	r.fallbacks.WithLabelValues(source).Inc()
}

// RecordCacheLookup records a record-cache hit or miss.
func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheHits.WithLabelValues(result).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordFetchLatency records per-symbol resolution latency in seconds.
func (r *Recorder) RecordFetchLatency(source string, seconds float64) {
	r.fetchLatency.WithLabelValues(source).Observe(seconds)
}
