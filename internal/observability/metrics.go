package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// catalog build pipeline.
type Metrics struct {
	ContextsEnumerated prometheus.Counter
	RecordsBuilt       prometheus.Counter
	RecordsDropped     prometheus.Counter
	RecordsFailed      prometheus.Counter
	RecordsPublished   prometheus.Counter
	RunRunning         prometheus.Gauge

	BuildDuration prometheus.Histogram

	// Elevation enrichment metrics.
	ElevationRequests    *prometheus.CounterVec // labels: outcome={success,error}
	ElevationCache       *prometheus.CounterVec // labels: result={hit,miss}
	ElevationAPIDuration prometheus.Histogram
	ElevationEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ContextsEnumerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cloudcatalog",
			Name:      "contexts_enumerated_total",
			Help:      "Total sample contexts discovered during enumeration.",
		}),
		RecordsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cloudcatalog",
			Name:      "records_built_total",
			Help:      "Total catalog records successfully built.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cloudcatalog",
			Name:      "records_dropped_total",
			Help:      "Total samples dropped for geometry validation failures.",
		}),
		RecordsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cloudcatalog",
			Name:      "records_failed_total",
			Help:      "Total samples that hit a hard failure.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cloudcatalog",
			Name:      "records_published_total",
			Help:      "Total records published to the downstream sink.",
		}),
		RunRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cloudcatalog",
			Name:      "run_running",
			Help:      "1 while a batch run is active, 0 otherwise.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cloudcatalog",
			Name:      "build_duration_seconds",
			Help:      "Duration of a single record build.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ElevationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cloudcatalog",
			Name:      "elevation_requests_total",
			Help:      "Elevation API requests by outcome.",
		}, []string{"outcome"}),
		ElevationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cloudcatalog",
			Name:      "elevation_cache_total",
			Help:      "Elevation cache lookups by result.",
		}, []string{"result"}),
		ElevationAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cloudcatalog",
			Name:      "elevation_api_duration_seconds",
			Help:      "Elevation API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ElevationEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cloudcatalog",
			Name:      "elevation_enabled",
			Help:      "1 when elevation enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ContextsEnumerated,
		m.RecordsBuilt,
		m.RecordsDropped,
		m.RecordsFailed,
		m.RecordsPublished,
		m.RunRunning,
		m.BuildDuration,
		m.ElevationRequests,
		m.ElevationCache,
		m.ElevationAPIDuration,
		m.ElevationEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ContextsEnumerated:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cloudcatalog", Name: "contexts_enumerated_total"}),
		RecordsBuilt:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cloudcatalog", Name: "records_built_total"}),
		RecordsDropped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cloudcatalog", Name: "records_dropped_total"}),
		RecordsFailed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cloudcatalog", Name: "records_failed_total"}),
		RecordsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cloudcatalog", Name: "records_published_total"}),
		RunRunning:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cloudcatalog", Name: "run_running"}),
		BuildDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cloudcatalog", Name: "build_duration_seconds"}),
		ElevationRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cloudcatalog", Name: "elevation_requests_total"}, []string{"outcome"}),
		ElevationCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cloudcatalog", Name: "elevation_cache_total"}, []string{"result"}),
		ElevationAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cloudcatalog", Name: "elevation_api_duration_seconds"}),
		ElevationEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cloudcatalog", Name: "elevation_enabled"}),
	}
}
