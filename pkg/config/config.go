// Package config defines the configuration of the soa command line tool.
//
// Configuration is organized into sections:
//   - Log: level and encoding of the process logger
//   - Sort: sort keys and direction
//   - Input, Output: dataset files, formats and compression
//   - Metrics: prometheus collection for the store
//   - Tracing: OpenTelemetry spans around each stage
//
// Example usage:
//
//	cfg, err := config.Load("soa.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Sort.By = []string{"score"}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"slices"

	"github.com/ajitpratap0/soa/pkg/logger"
	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Formats understood by the dataset loader. An empty format means "detect
// from the file extension".
var Formats = []string{"json", "ndjson", "csv", "arrow", "parquet"}

// Compressions understood by the dataset loader. An empty value means
// "detect from the file extension".
var Compressions = []string{"none", "gzip", "zstd", "lz4", "snappy", "s2"}

// Config is the complete configuration of one CLI run.
type Config struct {
	Log     logger.Config `yaml:"log" json:"log"`
	Sort    SortConfig    `yaml:"sort" json:"sort"`
	Input   FileConfig    `yaml:"input" json:"input"`
	Output  FileConfig    `yaml:"output" json:"output"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
}

// SortConfig selects the sort keys.
type SortConfig struct {
	// By lists key columns, most significant first
	By []string `yaml:"by" json:"by"`
	// Descending reverses every key
	Descending bool `yaml:"descending" json:"descending"`
	// Numeric compares keys as numbers when both values are numeric
	Numeric bool `yaml:"numeric" json:"numeric"`
}

// FileConfig describes a dataset file.
type FileConfig struct {
	Path        string `yaml:"path" json:"path"`
	Format      string `yaml:"format" json:"format"`
	Compression string `yaml:"compression" json:"compression"`
	// Level is the compression level: fastest, default, better or best
	Level string `yaml:"level" json:"level"`
}

// MetricsConfig controls prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Store is the value of the store label
	Store string `yaml:"store" json:"store"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate"`
	PrettyPrint bool    `yaml:"pretty_print" json:"pretty_print"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Log: logger.Config{
			Level:    "info",
			Encoding: "console",
		},
		Sort: SortConfig{
			Numeric: true,
		},
		Output: FileConfig{
			Level: "default",
		},
		Metrics: MetricsConfig{
			Store: "cli",
		},
		Tracing: TracingConfig{
			ServiceName: "soa",
			SampleRate:  1.0,
		},
	}
}

// Validate checks the configuration for consistency. Paths are not
// required here since CLI flags may still supply them.
func (c *Config) Validate() error {
	for i, key := range c.Sort.By {
		if key == "" {
			return invalid("empty sort key").WithDetail("position", i)
		}
		if slices.Index(c.Sort.By, key) != i {
			return invalid("duplicate sort key").WithDetail("column", key)
		}
	}
	files := []struct {
		name string
		cfg  FileConfig
	}{{"input", c.Input}, {"output", c.Output}}
	for _, file := range files {
		name, f := file.name, file.cfg
		if f.Format != "" && !slices.Contains(Formats, f.Format) {
			return invalid("unknown format").
				WithDetail("section", name).
				WithDetail("format", f.Format)
		}
		if f.Compression != "" && !slices.Contains(Compressions, f.Compression) {
			return invalid("unknown compression").
				WithDetail("section", name).
				WithDetail("compression", f.Compression)
		}
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return invalid("sample rate must be within [0, 1]").
			WithDetail("sample_rate", c.Tracing.SampleRate)
	}
	if c.Metrics.Enabled && c.Metrics.Store == "" {
		return invalid("metrics store label must not be empty")
	}
	return nil
}

func invalid(msg string) *soaerrors.Error {
	return soaerrors.New(soaerrors.ErrorTypeConfig, msg)
}
