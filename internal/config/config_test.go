package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Defaults()
	cfg.Counter.Backend = "memory"
	cfg.Identity.Backend = "memory"
	for _, d := range []*Destination{
		&cfg.Storage.Combined,
		&cfg.Storage.Authorization,
		&cfg.Storage.Clearing,
		&cfg.Storage.Chargeback,
	} {
		d.Backend = "local"
		d.LocalDir = "/tmp/out"
	}
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"bad mode", func(c *Config) { c.Job.Mode = "weekly" }, "job.mode"},
		{"negative index", func(c *Config) { c.Job.Index = -1 }, "job.index"},
		{"zero rows", func(c *Config) { c.Job.RowsPerJob = 0 }, "rows_per_job"},
		{"zero threads", func(c *Config) { c.Job.Threads = 0 }, "job.threads"},
		{"uneven split", func(c *Config) { c.Job.RowsPerJob = 100; c.Job.Threads = 3 }, "divide evenly"},
		{"unknown brand", func(c *Config) { c.Generator.CardBrand = "DINERS" }, "card_brand"},
		{"unknown network brand", func(c *Config) { c.Generator.NetworkBrand = "JCB" }, "network_brand"},
		{"rate above one", func(c *Config) { c.Generator.ChargebackRate = 1.5 }, "chargeback_rate"},
		{"bad codec", func(c *Config) { c.Generator.Compression = "gzip" }, "compression"},
		{"bad start date", func(c *Config) { c.Generator.HistoricalStart = "01/01/2020" }, "historical_start"},
		{"postgres counter without url", func(c *Config) { c.Counter.Backend = "postgres" }, "postgres_url"},
		{"unknown counter backend", func(c *Config) { c.Counter.Backend = "dynamo" }, "counter backend"},
		{"snapshot without path", func(c *Config) { c.Identity.Backend = "snapshot" }, "snapshot_path"},
		{"local dest without dir", func(c *Config) { c.Storage.Clearing.LocalDir = "" }, "storage.clearing"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantSub)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
job:
  mode: recent
  rows_per_job: 300
  threads: 3
counter:
  backend: memory
identity:
  backend: memory
storage:
  combined: {backend: local, local_dir: /tmp/combined}
  authorization: {backend: local, local_dir: /tmp/auth}
  clearing: {backend: local, local_dir: /tmp/clr}
  chargeback: {backend: local, local_dir: /tmp/cb}
`
	if err := os.WriteFile(path, []byte(yamlBody), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("AWS_BATCH_JOB_ARRAY_INDEX", "42")
	t.Setenv("AWS_BATCH_JOB_ID", "job-abc123")
	t.Setenv("TXNFORGE_JOB_INDEX_OFFSET", "1000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Job.Mode != ModeRecent {
		t.Errorf("mode = %q, want recent", cfg.Job.Mode)
	}
	if cfg.Job.Index != 42 {
		t.Errorf("index = %d, want 42", cfg.Job.Index)
	}
	if cfg.EffectiveJobIndex() != 1042 {
		t.Errorf("effective index = %d, want 1042", cfg.EffectiveJobIndex())
	}
	if cfg.Job.Key != "job-abc123" {
		t.Errorf("key = %q, want job-abc123", cfg.Job.Key)
	}
	if cfg.RowsPerThread() != 100 {
		t.Errorf("rows per thread = %d, want 100", cfg.RowsPerThread())
	}
}

func TestExplicitEnvBeatsSchedulerEnv(t *testing.T) {
	t.Setenv("AWS_BATCH_JOB_ARRAY_INDEX", "7")
	t.Setenv("TXNFORGE_JOB_INDEX", "9")

	cfg := validConfig()
	cfg.applyEnv()
	if cfg.Job.Index != 9 {
		t.Errorf("index = %d, want explicit override 9", cfg.Job.Index)
	}
}
