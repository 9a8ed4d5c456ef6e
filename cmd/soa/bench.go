package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

type benchFlags struct {
	rows       int
	columns    int
	seed       uint64
	order      string
	iterations int
	cpuProfile string
	memProfile string
}

func newBenchCommand(g *globalFlags) *cobra.Command {
	var f benchFlags
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure joint sort performance on generated data",
		Example: `  soa bench --rows 200000 --columns 8
  soa bench --rows 5000 --order ascending --cpuprofile cpu.prof`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()
			return runBench(cmd, a, f)
		},
	}
	cmd.Flags().IntVar(&f.rows, "rows", 100000, "Rows to generate")
	cmd.Flags().IntVar(&f.columns, "columns", 4, "Payload columns besides the key")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "Random seed")
	cmd.Flags().StringVar(&f.order, "order", "random", "Initial key order (random, ascending, descending)")
	cmd.Flags().IntVar(&f.iterations, "count", 3, "Number of iterations")
	cmd.Flags().StringVar(&f.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&f.memProfile, "memprofile", "", "Write memory profile to file")
	return cmd
}

func runBench(cmd *cobra.Command, a *app, f benchFlags) error {
	if f.rows < 0 || f.columns < 0 || f.iterations < 1 {
		return soaerrors.New(soaerrors.ErrorTypeValidation, "rows and columns must be >= 0 and count >= 1").
			WithDetail("rows", f.rows).
			WithDetail("columns", f.columns).
			WithDetail("count", f.iterations)
	}
	switch f.order {
	case "random", "ascending", "descending":
	default:
		return soaerrors.New(soaerrors.ErrorTypeValidation, "unknown order").WithDetail("order", f.order)
	}

	if f.cpuProfile != "" {
		pf, err := os.Create(f.cpuProfile)
		if err != nil {
			return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "create cpu profile")
		}
		defer pf.Close()
		if err := pprof.StartCPUProfile(pf); err != nil {
			return soaerrors.Wrap(err, soaerrors.ErrorTypeInternal, "start cpu profile")
		}
		defer pprof.StopCPUProfile()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Joint sort benchmark ===\n")
	fmt.Fprintf(out, "rows=%d columns=%d order=%s seed=%d\n\n", f.rows, f.columns+1, f.order, f.seed)

	var total time.Duration
	for i := range f.iterations {
		store, err := generate(f, a.storeOptions(f.rows))
		if err != nil {
			return err
		}
		if err := store.SortByColumn("key", nil); err != nil {
			return err
		}
		stats := store.LastSort()
		total += stats.Duration
		fmt.Fprintf(out, "run %d: %v, %d comparisons, %d swaps\n",
			i+1, stats.Duration, stats.Comparisons, stats.Swaps)
		a.log.Debug("benchmark iteration",
			zap.Int("iteration", i+1),
			zap.Int("comparisons", stats.Comparisons),
			zap.Duration("duration", stats.Duration),
		)
	}

	avg := total / time.Duration(f.iterations)
	fmt.Fprintf(out, "\naverage: %v", avg)
	if avg > 0 {
		fmt.Fprintf(out, " (%.0f rows/s)", float64(f.rows)/avg.Seconds())
	}
	fmt.Fprintln(out)

	if f.memProfile != "" {
		pf, err := os.Create(f.memProfile)
		if err != nil {
			return soaerrors.Wrap(err, soaerrors.ErrorTypeFile, "create memory profile")
		}
		defer pf.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(pf); err != nil {
			return soaerrors.Wrap(err, soaerrors.ErrorTypeInternal, "write memory profile")
		}
	}
	return nil
}

// generate builds a store with an integer key column followed by payload
// columns holding strings.
func generate(f benchFlags, opts []soa.Option) (*soa.Store[any], error) {
	columns := []string{"key"}
	for c := range f.columns {
		columns = append(columns, fmt.Sprintf("c%d", c))
	}
	store, err := soa.New[any](columns, opts...)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(f.seed, f.seed^0x9e3779b97f4a7c15))
	row := make([]any, len(columns))
	for i := range f.rows {
		switch f.order {
		case "ascending":
			row[0] = i
		case "descending":
			row[0] = f.rows - i
		default:
			row[0] = rng.IntN(f.rows + 1)
		}
		for c := 1; c < len(row); c++ {
			row[c] = fmt.Sprintf("r%d-c%d", i, c)
		}
		if err := store.Push(row...); err != nil {
			return nil, err
		}
	}
	return store, nil
}
