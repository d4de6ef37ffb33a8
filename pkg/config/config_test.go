package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sampleConfig struct {
	Bucket  string `envconfig:"BUCKET" required:"true"`
	Retries int    `envconfig:"RETRIES" default:"3"`
}

type boundedConfig struct {
	Workers int `envconfig:"WORKERS" default:"0"`
}

var errNoWorkers = errors.New("workers must be positive")

func (c *boundedConfig) Validate() error {
	if c.Workers <= 0 {
		return errNoWorkers
	}
	return nil
}

func TestExportEnvironmentKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_BUCKET=from-file\nCFGTEST_RETRIES=7\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("CFGTEST_BUCKET", "from-env")
	t.Setenv("CFGTEST_RETRIES", "")
	os.Unsetenv("CFGTEST_RETRIES")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	if got := os.Getenv("CFGTEST_BUCKET"); got != "from-env" {
		t.Fatalf("CFGTEST_BUCKET = %q, want from-env", got)
	}
	if got := os.Getenv("CFGTEST_RETRIES"); got != "7" {
		t.Fatalf("CFGTEST_RETRIES = %q, want 7", got)
	}
}

func TestNewProcessesPrefix(t *testing.T) {
	t.Setenv("SAMPLE_BUCKET", "media")

	conf, err := New[sampleConfig]("SAMPLE")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Bucket != "media" || conf.Retries != 3 {
		t.Fatalf("unexpected config: %#v", conf)
	}
}

func TestMustNewPanicsOnMissingRequired(t *testing.T) {
	t.Setenv("MISSING_BUCKET", "")
	os.Unsetenv("MISSING_BUCKET")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustNew[sampleConfig]("MISSING")
}

func TestNewRunsValidator(t *testing.T) {
	t.Setenv("BOUNDED_WORKERS", "0")

	_, err := New[boundedConfig]("BOUNDED")
	if !errors.Is(err, errNoWorkers) {
		t.Fatalf("expected validation error, got %v", err)
	}

	t.Setenv("BOUNDED_WORKERS", "4")
	conf, err := New[boundedConfig]("BOUNDED")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Workers != 4 {
		t.Fatalf("Workers = %d, want 4", conf.Workers)
	}
}
