package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance aggregator.
type Metrics struct {
	Recomputes *prometheus.CounterVec
	CacheHits  prometheus.Counter
	CacheMiss  prometheus.Counter
}

// New creates and registers all aggregator metrics.
func New() *Metrics {
	return &Metrics{
		Recomputes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nachweis_compliance_recomputes_total",
			Help: "Aggregate recomputations by resulting status",
		}, []string{"status"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachweis_compliance_cache_hits_total",
			Help: "Compliance status reads served from cache",
		}),
		CacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachweis_compliance_cache_misses_total",
			Help: "Compliance status reads that recomputed",
		}),
	}
}

func (m *Metrics) IncRecompute(status string) {
	if m != nil {
		m.Recomputes.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) IncCacheMiss() {
	if m != nil {
		m.CacheMiss.Inc()
	}
}
