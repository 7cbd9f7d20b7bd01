// Package metrics defines shiftsolve's Prometheus collectors, exposed by
// internal/httpapi via promhttp.HandlerFor over the registry they are
// registered with.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles the process's metrics. Construct one with New and
// register it with a prometheus.Registerer before serving /metrics.
type Collectors struct {
	JobsProcessed  *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	CacheSize      prometheus.GaugeFunc
}

// New builds a Collectors instance. cacheSize is polled lazily each
// scrape via the supplied function, matching GaugeFunc's intended use
// for a value another component already owns (here, Cache.Len).
func New(cacheSize func() float64) *Collectors {
	return &Collectors{
		JobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftsolve",
			Name:      "jobs_processed_total",
			Help:      "Decomposition jobs processed, labeled by outcome.",
		}, []string{"outcome"}),

		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shiftsolve",
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of handling a single job, from metadata lookup through publication.",
			Buckets:   prometheus.DefBuckets,
		}),

		CacheSize: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "shiftsolve",
			Name:      "cache_entries",
			Help:      "Number of entries currently held in the memoization cache.",
		}, cacheSize),
	}
}

// MustRegister registers every collector with reg, panicking on a
// collision (there should never be one for a freshly-built Collectors).
func (c *Collectors) MustRegister(reg *prometheus.Registry) {
	reg.MustRegister(c.JobsProcessed, c.SearchDuration, c.CacheSize)
}
