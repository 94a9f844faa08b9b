package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// IngestCfg tunes registry ingestion.
type IngestCfg struct {
	Workers         int `yaml:"workers" json:"workers"`
	MaxWorkers      int `yaml:"max_workers" json:"max_workers"`
	InsertBatchSize int `yaml:"insert_batch_size" json:"insert_batch_size"`
	IndexBatchSize  int `yaml:"index_batch_size" json:"index_batch_size"`
}

// ParserCfg holds the address formatting thresholds.
type ParserCfg struct {
	ShortNameMinLen int `yaml:"short_name_min_len" json:"short_name_min_len"`
	LegacyTrimMax   int `yaml:"legacy_trim_max" json:"legacy_trim_max"`
	UnifiedTrimMax  int `yaml:"unified_trim_max" json:"unified_trim_max"`
}

type Config struct {
	Ingest IngestCfg `yaml:"ingest" json:"ingest"`
	Parser ParserCfg `yaml:"parser" json:"parser"`
}

// C is the process-wide configuration. It starts as Default().
var C = Default()

// Default returns the stock settings.
func Default() Config {
	return Config{
		Ingest: IngestCfg{
			Workers:         4,
			MaxWorkers:      8,
			InsertBatchSize: 10000,
			IndexBatchSize:  1000,
		},
		Parser: ParserCfg{
			ShortNameMinLen: 4,
			LegacyTrimMax:   2,
			UnifiedTrimMax:  3,
		},
	}
}

// Load reads path over the defaults into C. A missing file keeps the defaults.
func Load(path string) error {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// ENV overrides
	if v, err := strconv.Atoi(os.Getenv("INGEST_WORKERS")); err == nil && v > 0 {
		cfg.Ingest.Workers = v
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	C = cfg
	return nil
}

// Validate checks that every knob is usable.
func (c Config) Validate() error {
	if c.Ingest.MaxWorkers < 1 {
		return fmt.Errorf("ingest.max_workers must be positive, got %d", c.Ingest.MaxWorkers)
	}
	if err := c.Ingest.CheckWorkers(c.Ingest.Workers); err != nil {
		return err
	}
	if c.Ingest.InsertBatchSize < 1 || c.Ingest.IndexBatchSize < 1 {
		return errors.New("ingest batch sizes must be positive")
	}
	if c.Parser.LegacyTrimMax < 0 || c.Parser.UnifiedTrimMax < 0 || c.Parser.ShortNameMinLen < 0 {
		return errors.New("parser thresholds must not be negative")
	}
	return nil
}

// CheckWorkers validates a requested worker count.
func (c IngestCfg) CheckWorkers(n int) error {
	if n < 1 || n > c.MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", c.MaxWorkers, n)
	}
	return nil
}
