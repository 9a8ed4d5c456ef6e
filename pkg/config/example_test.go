package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/soa/pkg/config"
)

// ExampleDefault shows the defaults a run starts from.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Log level: %s\n", cfg.Log.Level)
	fmt.Printf("Numeric keys: %t\n", cfg.Sort.Numeric)
	fmt.Printf("Service: %s\n", cfg.Tracing.ServiceName)

	// Output:
	// Log level: info
	// Numeric keys: true
	// Service: soa
}

// ExampleConfig_Validate shows how to validate a configuration before use.
func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.Sort.By = []string{"score", "name"}
	cfg.Output.Format = "ndjson"
	cfg.Output.Compression = "zstd"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	fmt.Println("Configuration is valid!")

	cfg.Output.Format = "xml"
	fmt.Println(cfg.Validate())

	// Output:
	// Configuration is valid!
	// config: unknown format (format=xml, section=output)
}
