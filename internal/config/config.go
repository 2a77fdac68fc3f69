// Package config loads and validates the generator configuration.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects which partition-date window jobs hash into.
const (
	ModeHistorical = "historical"
	ModeRecent     = "recent"
)

// Destination configures one object-storage destination.
type Destination struct {
	Backend string `yaml:"backend"` // "local" | "gcs" | "s3"

	// Local filesystem
	LocalDir string `yaml:"local_dir"`

	// GCS
	GCSBucket string `yaml:"gcs_bucket"`

	// S3 (also works for B2, R2, MinIO)
	S3Bucket   string `yaml:"s3_bucket"`
	S3Endpoint string `yaml:"s3_endpoint"`
	S3Region   string `yaml:"s3_region"`

	// Path prefix within the bucket or local dir
	Prefix string `yaml:"prefix"`
}

// Config is the full generator configuration.
type Config struct {
	Job struct {
		Index       int    `yaml:"index"`        // scheduler array index
		IndexOffset int    `yaml:"index_offset"` // added to Index for fleet extension
		Key         string `yaml:"key"`          // stable retry key; defaults to scheduler job ID
		Mode        string `yaml:"mode"`         // "historical" | "recent"
		RowsPerJob  int64  `yaml:"rows_per_job"`
		Threads     int    `yaml:"threads"`
	} `yaml:"job"`

	Generator struct {
		CardBrand       string  `yaml:"card_brand"`    // VISA | MASTERCARD | AMEX | DISCOVER
		NetworkBrand    string  `yaml:"network_brand"` // dispute reason-code set; defaults to card_brand
		ChargebackRate  float64 `yaml:"chargeback_rate"`
		Compression     string  `yaml:"compression"`      // "snappy" | "zstd"
		HistoricalStart string  `yaml:"historical_start"` // YYYY-MM-DD
	} `yaml:"generator"`

	Counter struct {
		Backend     string `yaml:"backend"` // "postgres" | "memory"
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"counter"`

	Identity struct {
		Backend      string `yaml:"backend"` // "postgres" | "snapshot" | "memory"
		PostgresURL  string `yaml:"postgres_url"`
		SnapshotPath string `yaml:"snapshot_path"`
	} `yaml:"identity"`

	Storage struct {
		Combined      Destination `yaml:"combined"`
		Authorization Destination `yaml:"authorization"`
		Clearing      Destination `yaml:"clearing"`
		Chargeback    Destination `yaml:"chargeback"`
	} `yaml:"storage"`

	Logging struct {
		Format string `yaml:"format"`
		Level  string `yaml:"level"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Address string `yaml:"address"`
	} `yaml:"metrics"`
}

// Defaults returns a config populated with default values.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Job.Mode = ModeHistorical
	cfg.Job.RowsPerJob = 1_500_000
	cfg.Job.Threads = 3
	cfg.Generator.CardBrand = "VISA"
	cfg.Generator.ChargebackRate = 0.001
	cfg.Generator.Compression = "snappy"
	cfg.Generator.HistoricalStart = "2020-01-01"
	cfg.Counter.Backend = "postgres"
	cfg.Identity.Backend = "postgres"
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "info"
	cfg.Metrics.Address = ":9090"
	return cfg
}

// Load reads the YAML config at path (if non-empty), applies environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad loads configuration or exits the process.
// The config path comes from TXNFORGE_CONFIG and may be empty.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("TXNFORGE_CONFIG"))
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	return cfg
}

// applyEnv maps scheduler and override environment variables onto the config.
// AWS Batch array jobs export their index and job ID; both are honored so the
// same image runs unchanged under the scheduler.
func (c *Config) applyEnv() {
	if v := firstEnv("TXNFORGE_JOB_INDEX", "AWS_BATCH_JOB_ARRAY_INDEX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Job.Index = n
		}
	}
	if v := firstEnv("TXNFORGE_JOB_KEY", "AWS_BATCH_JOB_ID"); v != "" {
		c.Job.Key = v
	}
	if v := os.Getenv("TXNFORGE_JOB_INDEX_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Job.IndexOffset = n
		}
	}
	if v := os.Getenv("TXNFORGE_MODE"); v != "" {
		c.Job.Mode = v
	}
	if v := os.Getenv("TXNFORGE_ROWS_PER_JOB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Job.RowsPerJob = n
		}
	}
	if v := os.Getenv("TXNFORGE_CARD_BRAND"); v != "" {
		c.Generator.CardBrand = v
	}
	if v := os.Getenv("TXNFORGE_NETWORK_BRAND"); v != "" {
		c.Generator.NetworkBrand = v
	}
	if v := os.Getenv("TXNFORGE_COUNTER_POSTGRES_URL"); v != "" {
		c.Counter.PostgresURL = v
	}
	if v := os.Getenv("TXNFORGE_IDENTITY_POSTGRES_URL"); v != "" {
		c.Identity.PostgresURL = v
	}
	if v := os.Getenv("TXNFORGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

var validBrands = map[string]bool{
	"VISA":       true,
	"MASTERCARD": true,
	"AMEX":       true,
	"DISCOVER":   true,
}

// EffectiveJobIndex returns the scheduler index plus the configured offset.
func (c *Config) EffectiveJobIndex() int {
	return c.Job.Index + c.Job.IndexOffset
}

// RowsPerThread returns the per-thread row count.
func (c *Config) RowsPerThread() int64 {
	return c.Job.RowsPerJob / int64(c.Job.Threads)
}

// Validate rejects malformed configuration. It runs before any sequence
// counter is touched so a bad config never consumes an order value.
func (c *Config) Validate() error {
	if c.Job.Mode != ModeHistorical && c.Job.Mode != ModeRecent {
		return fmt.Errorf("job.mode must be %q or %q, got %q", ModeHistorical, ModeRecent, c.Job.Mode)
	}
	if c.Job.Index < 0 {
		return fmt.Errorf("job.index must be >= 0, got %d", c.Job.Index)
	}
	if c.Job.RowsPerJob <= 0 {
		return fmt.Errorf("job.rows_per_job must be > 0, got %d", c.Job.RowsPerJob)
	}
	if c.Job.Threads < 1 {
		return fmt.Errorf("job.threads must be >= 1, got %d", c.Job.Threads)
	}
	if c.Job.RowsPerJob%int64(c.Job.Threads) != 0 {
		return fmt.Errorf("job.rows_per_job (%d) must divide evenly by job.threads (%d)",
			c.Job.RowsPerJob, c.Job.Threads)
	}
	if !validBrands[c.Generator.CardBrand] {
		return fmt.Errorf("generator.card_brand %q is not a known brand", c.Generator.CardBrand)
	}
	if nb := c.Generator.NetworkBrand; nb != "" && !validBrands[nb] {
		return fmt.Errorf("generator.network_brand %q is not a known brand", nb)
	}
	if c.Generator.ChargebackRate < 0 || c.Generator.ChargebackRate > 1 {
		return fmt.Errorf("generator.chargeback_rate must be in [0,1], got %g", c.Generator.ChargebackRate)
	}
	switch c.Generator.Compression {
	case "snappy", "zstd":
	default:
		return fmt.Errorf("generator.compression must be snappy or zstd, got %q", c.Generator.Compression)
	}
	if _, err := time.Parse("2006-01-02", c.Generator.HistoricalStart); err != nil {
		return fmt.Errorf("generator.historical_start: %w", err)
	}
	switch c.Counter.Backend {
	case "postgres":
		if c.Counter.PostgresURL == "" {
			return fmt.Errorf("counter.postgres_url required for postgres backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown counter backend: %s", c.Counter.Backend)
	}
	switch c.Identity.Backend {
	case "postgres":
		if c.Identity.PostgresURL == "" {
			return fmt.Errorf("identity.postgres_url required for postgres backend")
		}
	case "snapshot":
		if c.Identity.SnapshotPath == "" {
			return fmt.Errorf("identity.snapshot_path required for snapshot backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown identity backend: %s", c.Identity.Backend)
	}
	for _, d := range []struct {
		name string
		dst  Destination
	}{
		{"storage.combined", c.Storage.Combined},
		{"storage.authorization", c.Storage.Authorization},
		{"storage.clearing", c.Storage.Clearing},
		{"storage.chargeback", c.Storage.Chargeback},
	} {
		if err := d.dst.validate(); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return nil
}

func (d Destination) validate() error {
	switch d.Backend {
	case "local":
		if d.LocalDir == "" {
			return fmt.Errorf("local_dir required for local backend")
		}
	case "gcs":
		if d.GCSBucket == "" {
			return fmt.Errorf("gcs_bucket required for gcs backend")
		}
	case "s3":
		if d.S3Bucket == "" {
			return fmt.Errorf("s3_bucket required for s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", d.Backend)
	}
	return nil
}
