package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/internal/dataset"
	"github.com/ajitpratap0/soa/pkg/compression"
	"github.com/ajitpratap0/soa/pkg/config"
	"github.com/ajitpratap0/soa/pkg/logger"
	"github.com/ajitpratap0/soa/pkg/observability"
	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

type sortFlags struct {
	in, out      string
	format       string
	outFormat    string
	compression  string
	level        string
	by           []string
	descending   bool
	text         bool
	capacityHint int
}

func newSortCommand(g *globalFlags) *cobra.Command {
	var f sortFlags
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort a dataset file by one or more columns",
		Example: `  soa sort --in people.csv --out sorted.json.gz --by score --desc
  soa sort --config sort.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()
			applySortFlags(cmd, &f, a.cfg)
			return runSort(cmd.Context(), cmd, a, f.capacityHint)
		},
	}

	cmd.Flags().StringVarP(&f.in, "in", "i", "", "Input file")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output file")
	cmd.Flags().StringSliceVar(&f.by, "by", nil, "Sort key columns, most significant first")
	cmd.Flags().BoolVar(&f.descending, "desc", false, "Sort in descending order")
	cmd.Flags().BoolVar(&f.text, "text", false, "Compare keys as text instead of numbers")
	cmd.Flags().StringVar(&f.format, "format", "", "Input format (json, ndjson, csv, arrow, parquet)")
	cmd.Flags().StringVar(&f.outFormat, "out-format", "", "Output format, detected from --out when empty")
	cmd.Flags().StringVar(&f.compression, "compression", "", "Output compression (none, gzip, zstd, lz4, snappy, s2)")
	cmd.Flags().StringVar(&f.level, "level", "", "Output compression level (fastest, default, better, best)")
	cmd.Flags().IntVar(&f.capacityHint, "capacity", 0, "Rows to preallocate")
	return cmd
}

// applySortFlags overrides configuration values with flags given on the
// command line.
func applySortFlags(cmd *cobra.Command, f *sortFlags, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("in") {
		cfg.Input.Path = f.in
	}
	if set("out") {
		cfg.Output.Path = f.out
	}
	if set("by") {
		cfg.Sort.By = f.by
	}
	if set("desc") {
		cfg.Sort.Descending = f.descending
	}
	if set("text") {
		cfg.Sort.Numeric = !f.text
	}
	if set("format") {
		cfg.Input.Format = f.format
	}
	if set("out-format") {
		cfg.Output.Format = f.outFormat
	}
	if set("compression") {
		cfg.Output.Compression = f.compression
	}
	if set("level") {
		cfg.Output.Level = f.level
	}
}

func runSort(ctx context.Context, cmd *cobra.Command, a *app, capacity int) error {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input.Path == "" || cfg.Output.Path == "" {
		return soaerrors.New(soaerrors.ErrorTypeConfig, "both input and output paths are required")
	}
	if len(cfg.Sort.By) == 0 {
		return soaerrors.New(soaerrors.ErrorTypeConfig, "at least one sort key is required")
	}

	in, err := datasetFile(cfg.Input)
	if err != nil {
		return err
	}
	out, err := datasetFile(cfg.Output)
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, logger.CommandKey, "sort")
	ctx = context.WithValue(ctx, logger.FileKey, in.Path)
	if cfg.Metrics.Enabled {
		ctx = context.WithValue(ctx, logger.StoreKey, cfg.Metrics.Store)
	}
	log := logger.WithContext(ctx)

	var store *soa.Store[any]
	err = observability.Trace(ctx, "dataset.load", func(context.Context) error {
		var err error
		store, err = dataset.Load(in, a.storeOptions(capacity)...)
		return err
	}, attribute.String("path", in.Path))
	if err != nil {
		return err
	}
	log.Info("dataset loaded",
		zap.Int("rows", store.Len()),
		zap.Strings("columns", store.Columns()),
	)

	keys := dataset.SortKeys{
		Columns:    cfg.Sort.By,
		Descending: cfg.Sort.Descending,
		Numeric:    cfg.Sort.Numeric,
	}
	cmp, err := dataset.Comparator(store, keys)
	if err != nil {
		return err
	}
	err = observability.Trace(ctx, "store.sort", func(context.Context) error {
		return store.Sort(cmp)
	}, attribute.StringSlice("keys", keys.Columns), attribute.Int("rows", store.Len()))
	if err != nil {
		return err
	}
	stats := store.LastSort()
	log.Info("dataset sorted",
		zap.Strings("keys", keys.Columns),
		zap.Bool("descending", keys.Descending),
		zap.Int("comparisons", stats.Comparisons),
		zap.Int("swaps", stats.Swaps),
		zap.Duration("duration", stats.Duration),
	)

	err = observability.Trace(ctx, "dataset.save", func(context.Context) error {
		return dataset.Save(out, store)
	}, attribute.String("path", out.Path))
	if err != nil {
		return err
	}
	log.Info("dataset written", zap.String("output", out.Path))

	fmt.Fprintf(cmd.OutOrStdout(), "sorted %d rows by %v into %s\n", store.Len(), keys.Columns, out.Path)
	return nil
}

// datasetFile converts a validated FileConfig. Empty format and
// compression stay empty so they are detected from the path.
func datasetFile(fc config.FileConfig) (dataset.File, error) {
	f := dataset.File{Path: fc.Path, Format: dataset.Format(fc.Format)}
	if fc.Compression != "" {
		alg, err := compression.ParseAlgorithm(fc.Compression)
		if err != nil {
			return f, err
		}
		f.Compression = alg
	}
	if fc.Level != "" {
		level, err := compression.ParseLevel(fc.Level)
		if err != nil {
			return f, err
		}
		f.Level = level
	}
	return f, nil
}
