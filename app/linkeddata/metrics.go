package linkeddata

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are shared by every session created with them.
type Metrics struct {
	fetches        *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	staleFallbacks prometheus.Counter
	budgetDenied   prometheus.Counter
	feedFetches    *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foafcomb",
			Subsystem: "resolver",
			Name:      "fetches_total",
			Help:      "Total number of linked-data documents fetched, by outcome",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foafcomb",
			Subsystem: "resolver",
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups, by namespace and result",
		}, []string{"namespace", "result"}),
		staleFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foafcomb",
			Subsystem: "resolver",
			Name:      "stale_fallbacks_total",
			Help:      "Total number of fragments served from stale cache entries",
		}),
		budgetDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foafcomb",
			Subsystem: "resolver",
			Name:      "budget_denied_total",
			Help:      "Total number of fetches skipped because the crawl budget was exhausted",
		}),
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foafcomb",
			Subsystem: "activity",
			Name:      "feed_fetches_total",
			Help:      "Total number of activity feed loads, by source",
		}, []string{"source"}),
	}

	collectors := []prometheus.Collector{m.fetches, m.cacheLookups, m.staleFallbacks, m.budgetDenied, m.feedFetches}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) fetch(outcome string) {
	if m != nil {
		m.fetches.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) cacheLookup(namespace string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(namespace, result).Inc()
}

func (m *Metrics) staleFallback() {
	if m != nil {
		m.staleFallbacks.Inc()
	}
}

func (m *Metrics) denied() {
	if m != nil {
		m.budgetDenied.Inc()
	}
}

func (m *Metrics) feedFetch(source string) {
	if m != nil {
		m.feedFetches.WithLabelValues(source).Inc()
	}
}
