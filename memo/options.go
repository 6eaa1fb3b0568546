package memo

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Registry and every Owner it creates.
type Option func(*config)

type config struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
	hasher     Hasher
}

func newConfig(opts []Option) config {
	cfg := config{
		logger: zap.NewNop(),
		hasher: hashComponents,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithLogger sets the logger used for lifecycle events (registration, reset,
// preset, clear, restore). Cache reads are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics registers hit, miss, preset and reset counters on reg.
// Several registries may share one Registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithHasher replaces the function that turns multi-argument keys into a
// bucket index. Lookups always confirm a hit by full component equality, so
// a poor hasher only costs speed.
func WithHasher(h Hasher) Option {
	return func(c *config) {
		if h != nil {
			c.hasher = h
		}
	}
}
