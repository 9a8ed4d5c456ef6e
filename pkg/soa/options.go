package soa

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/metrics"
)

type options struct {
	logger    *zap.Logger
	collector *metrics.Collector
	capacity  int
}

// Option configures a Store at construction.
type Option func(*options)

// WithLogger sets the logger used for debug output such as sort statistics.
// A nil logger disables logging, which is also the default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithMetrics attaches a metrics collector. Every successful mutation and
// every sort is reported to it.
//
// Example:
//
//	m := metrics.New(prometheus.NewRegistry())
//	store, _ := soa.New[float64]([]string{"x", "y"}, soa.WithMetrics(m.For("points")))
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.collector = c
	}
}

// WithCapacity preallocates room for n rows in every column.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
