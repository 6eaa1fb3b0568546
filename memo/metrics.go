package memo

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "memowise"

type metrics struct {
	hits    *prometheus.CounterVec
	misses  *prometheus.CounterVec
	presets *prometheus.CounterVec
	resets  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Memoized calls served from cache.",
		}, []string{"owner_type", "method"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "Memoized calls that ran the underlying computation.",
		}, []string{"owner_type", "method"}),
		presets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "presets_total",
			Help:      "Entries stored through preset.",
		}, []string{"owner_type", "method"}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resets_total",
			Help:      "Cache invalidations by mode (entry, method, all).",
		}, []string{"owner_type", "method", "mode"}),
	}
	var err error
	if m.hits, err = register(reg, m.hits); err != nil {
		return nil, err
	}
	if m.misses, err = register(reg, m.misses); err != nil {
		return nil, err
	}
	if m.presets, err = register(reg, m.presets); err != nil {
		return nil, err
	}
	if m.resets, err = register(reg, m.resets); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector registered earlier
// by another registry.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *metrics) forMethod(ownerType, method string) counters {
	if m == nil {
		return counters{}
	}
	return counters{
		hits:    m.hits.WithLabelValues(ownerType, method),
		misses:  m.misses.WithLabelValues(ownerType, method),
		presets: m.presets.WithLabelValues(ownerType, method),
		resets:  m.resets.MustCurryWith(prometheus.Labels{"owner_type": ownerType, "method": method}),
	}
}

func (m *metrics) resetAll(ownerType string) {
	if m == nil {
		return
	}
	m.resets.WithLabelValues(ownerType, "", "all").Inc()
}

func (c counters) reset(mode string) {
	if c.resets != nil {
		c.resets.WithLabelValues(mode).Inc()
	}
}
