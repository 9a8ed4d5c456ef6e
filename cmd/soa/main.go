// Command soa sorts and inspects tabular dataset files with the soa
// structure-of-arrays store.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists so ${VAR} references in config files resolve
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "soa",
		Short: "soa - column-oriented row sorting for dataset files",
		Long: `soa loads JSON, NDJSON, CSV or Arrow files into a structure-of-arrays store,
sorts every column jointly by one or more key columns and writes the result back.
Compressed inputs and outputs (.gz, .zst, .lz4, .sz, .s2) are handled transparently.`,
		SilenceUsage: true,
	}

	var g globalFlags
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.metrics, "metrics", false, "Print collected metrics to stderr on exit")
	root.PersistentFlags().BoolVar(&g.tracing, "trace", false, "Export OpenTelemetry spans to stderr")

	root.AddCommand(
		newVersionCommand(),
		newSortCommand(&g),
		newInspectCommand(&g),
		newBenchCommand(&g),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "soa v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
