package main

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/config"
	"github.com/ajitpratap0/soa/pkg/logger"
	"github.com/ajitpratap0/soa/pkg/metrics"
	"github.com/ajitpratap0/soa/pkg/observability"
	"github.com/ajitpratap0/soa/pkg/soa"
)

type globalFlags struct {
	configPath string
	logLevel   string
	metrics    bool
	tracing    bool
}

// app holds what every command sets up from configuration.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	stderr   io.Writer
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	shutdown observability.ShutdownFunc
}

func newApp(cmd *cobra.Command, g *globalFlags) (*app, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.metrics {
		cfg.Metrics.Enabled = true
	}
	if g.tracing {
		cfg.Tracing.Enabled = true
	}

	a := &app{cfg: cfg, stderr: cmd.ErrOrStderr()}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}
	a.log = logger.Get()

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.metrics = metrics.New(a.registry)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: version,
			SampleRate:     cfg.Tracing.SampleRate,
			PrettyPrint:    cfg.Tracing.PrettyPrint,
			Writer:         a.stderr,
		})
		if err != nil {
			return nil, err
		}
		a.shutdown = shutdown
	}
	return a, nil
}

// storeOptions returns the options every store built by a command uses.
func (a *app) storeOptions(capacity int) []soa.Option {
	opts := []soa.Option{
		soa.WithLogger(a.log.Named("soa")),
		soa.WithCapacity(capacity),
	}
	if a.metrics != nil {
		opts = append(opts, soa.WithMetrics(a.metrics.For(a.cfg.Metrics.Store)))
	}
	return opts
}

// close flushes spans, prints metrics and syncs the logger.
func (a *app) close() {
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			logger.Warn("failed to shut down tracing", zap.Error(err))
		}
	}
	if a.registry != nil {
		if err := dumpMetrics(a.stderr, a.registry); err != nil {
			logger.Warn("failed to write metrics", zap.Error(err))
		}
	}
	_ = logger.Sync()
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
