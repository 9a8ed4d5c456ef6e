package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/soa/internal/dataset"
	"github.com/ajitpratap0/soa/pkg/arrowconv"
	"github.com/ajitpratap0/soa/pkg/soa"
)

func newInspectCommand(g *globalFlags) *cobra.Command {
	var in, format string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the columns, row count and memory use of a dataset file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			f := dataset.File{Path: in, Format: dataset.Format(format)}
			store, err := dataset.Load(f, a.storeOptions(0)...)
			if err != nil {
				return err
			}
			return printInspect(cmd, store)
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Input file")
	cmd.Flags().StringVar(&format, "format", "", "Input format, detected from --in when empty")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func printInspect(cmd *cobra.Command, store *soa.Store[any]) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rows:    %d\n", store.Len())
	fmt.Fprintf(out, "columns: %d\n", store.Arity())
	fmt.Fprintf(out, "data:    %s (estimated)\n", formatBytes(estimateBytes(store)))
	if rss, err := processRSS(); err == nil {
		fmt.Fprintf(out, "rss:     %s\n", formatBytes(rss))
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tCOLUMN\tTYPE")
	for i, field := range arrowconv.InferSchema(store).Fields() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, field.Name, field.Type)
	}
	return tw.Flush()
}

// estimateBytes approximates the memory held by the store's values: one
// interface header per cell plus the payload of strings and byte slices.
func estimateBytes(store *soa.Store[any]) uint64 {
	const header = 16
	total := uint64(store.Len()) * uint64(store.Arity()) * header
	for c := range store.Arity() {
		for v := range store.Values(c) {
			switch x := v.(type) {
			case string:
				total += uint64(len(x))
			case []byte:
				total += uint64(len(x))
			}
		}
	}
	return total
}

func processRSS() (uint64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return mem.RSS, nil
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
