// Package config defines the JSON-serializable configuration of the loader.
//
// Values are layered: Default, then a JSON file (Load), then CINE_*
// environment variables (ApplyEnv), then command-line flags, which the CLI
// applies last. Validate lints the result.
//
// Example:
//
//	{
//	  "source":  { "dir": "/data/imdb" },
//	  "storage": { "kind": "postgres", "dsn": "postgres://cine@db/imdb", "chunk_size": 20000 },
//	  "import":  { "entities": ["titles", "ratings"], "check_orphans": true },
//	  "metrics": { "backend": "pushgateway", "pushgateway_url": "http://pgw:9091" },
//	  "log":     { "level": "debug", "format": "json" }
//	}
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cine/internal/records"
)

// Config is the top-level object decoded from a config file.
type Config struct {
	Source  Source  `json:"source"`
	Storage Storage `json:"storage"`
	Runtime Runtime `json:"runtime"`
	Import  Import  `json:"import"`
	Metrics Metrics `json:"metrics"`
	Log     Log     `json:"log"`
}

// Source locates the dataset.
type Source struct {
	// Dir holds the *.tsv.gz files. The CLI argument takes precedence.
	Dir string `json:"dir"`
}

// Storage selects the database.
type Storage struct {
	// Kind is one of sqlite, postgres, mssql, mysql.
	Kind string `json:"kind"`
	// DSN is the connection string; a file path for sqlite, where empty
	// means in-memory.
	DSN string `json:"dsn"`
	// ChunkSize is the number of records per insert transaction.
	ChunkSize int `json:"chunk_size"`
}

// Runtime tunes the pipeline.
type Runtime struct {
	// ChannelBuffer is the decoder-to-writer channel capacity.
	ChannelBuffer int `json:"channel_buffer"`
	// ParallelBench decodes every entity concurrently in the benchmark.
	ParallelBench bool `json:"parallel_bench"`
}

// Import selects what to load.
type Import struct {
	// Entities restricts the import to these tables, classes or file
	// names. Empty imports everything.
	Entities     []string `json:"entities"`
	IncludeAdult bool     `json:"include_adult"`
	CheckOrphans bool     `json:"check_orphans"`
	Lenient      bool     `json:"lenient"`
}

// Metrics configures the metrics backend.
type Metrics struct {
	// Backend is none, pushgateway or datadog.
	Backend        string   `json:"backend"`
	Job            string   `json:"job"`
	PushgatewayURL string   `json:"pushgateway_url"`
	DogStatsDAddr  string   `json:"dogstatsd_addr"`
	Tags           []string `json:"tags"`
}

// Log configures the zap logger.
type Log struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level"`
	// Format is console or json.
	Format string `json:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: Storage{Kind: "sqlite", ChunkSize: 10_000},
		Runtime: Runtime{ChannelBuffer: 4096},
		Import:  Import{CheckOrphans: true},
		Metrics: Metrics{Backend: "none", Job: "cine"},
		Log:     Log{Level: "info", Format: "console"},
	}
}

// Load reads a JSON config file over the defaults. Keys absent from the file
// keep their default; unknown keys are rejected. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode strictly unmarshals data into cfg.
func Decode(data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after the config object")
	}
	return nil
}

// ParseEntities resolves Import.Entities.
func (i Import) ParseEntities() ([]records.Entity, error) {
	var out []records.Entity
	for _, s := range i.Entities {
		if strings.TrimSpace(s) == "" {
			continue
		}
		e, err := records.ParseEntity(s)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
