package config_test

import (
	"testing"

	"github.com/taskworks/jobrun/internal/config"
)

func TestGetConfig(t *testing.T) {
	// Reset to get fresh config
	config.Reset()
	defer config.Reset()

	cfg := config.Get()
	if cfg == nil {
		t.Fatal("config should not be nil")
	}

	// Check defaults
	if cfg.DefaultExtension != config.DefaultExtension {
		t.Errorf("expected default extension %q, got %q", config.DefaultExtension, cfg.DefaultExtension)
	}

	if cfg.LogFormat != config.DefaultLogFormat {
		t.Errorf("expected default log format %q, got %q", config.DefaultLogFormat, cfg.LogFormat)
	}

	if cfg.Debug {
		t.Error("expected Debug to default to false")
	}
}

func TestConfigFromEnv(t *testing.T) {
	// Reset and set env vars
	config.Reset()
	defer config.Reset()

	t.Setenv("JOBRUN_DEBUG", "true")
	t.Setenv("JOBRUN_DEFAULT_EXT", "yaml")
	t.Setenv("JOBRUN_LOG_FORMAT", "json")

	cfg := config.Get()

	if !cfg.Debug {
		t.Error("expected Debug to be true")
	}

	if cfg.DefaultExtension != "yaml" {
		t.Errorf("expected default extension 'yaml', got %q", cfg.DefaultExtension)
	}

	if cfg.LogFormat != "json" {
		t.Errorf("expected log format 'json', got %q", cfg.LogFormat)
	}
}

func TestNoColorFromConventionalEnv(t *testing.T) {
	config.Reset()
	defer config.Reset()

	t.Setenv("NO_COLOR", "1")

	if !config.Get().NoColor {
		t.Error("expected NO_COLOR to disable color")
	}
}

func TestConfigGetCaches(t *testing.T) {
	config.Reset()
	defer config.Reset()

	first := config.Get()
	second := config.Get()

	if first != second {
		t.Error("Get() should return the same instance until Reset()")
	}
}

func TestNewConfigBuilder(t *testing.T) {
	cfg := config.NewConfig().
		WithDefaultExtension("json").
		WithDebug(true).
		WithLogFormat("json")

	if cfg.DefaultExtension != "json" {
		t.Errorf("expected extension 'json', got %q", cfg.DefaultExtension)
	}

	if !cfg.Debug {
		t.Error("expected Debug to be true")
	}

	if cfg.LogFormat != "json" {
		t.Errorf("expected log format 'json', got %q", cfg.LogFormat)
	}
}
