package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DNR_API_KEY", "PHRASE_FILE", "WORKER_COUNT", "JOB_TTL", "INJECT_BANNER", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.JobTTL)
	}
	if !cfg.InjectBanner {
		t.Error("expected banner injection on by default")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("MAX_QUEUE_SIZE", "7")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("INJECT_BANNER", "false")
	t.Setenv("SANITIZE_OUTPUT", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected negative worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 7 {
		t.Errorf("expected queue size 7, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != 5*time.Minute {
		t.Errorf("expected 5m TTL, got %s", cfg.JobTTL)
	}
	if cfg.InjectBanner || !cfg.SanitizeOutput {
		t.Errorf("expected banner off and sanitize on, got %v/%v", cfg.InjectBanner, cfg.SanitizeOutput)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("expected error without API key")
	}
	if err := (Config{APIKey: "k"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if err := (Config{APIKey: "k", PhraseFile: missing}).Validate(); err == nil {
		t.Error("expected error for missing phrase file")
	}
}
