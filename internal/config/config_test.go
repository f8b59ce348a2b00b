package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BATCH_PACING", "")
	t.Setenv("BACKFILL_ENABLED", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BatchPacing != time.Second {
		t.Errorf("BatchPacing = %s, want 1s", cfg.BatchPacing)
	}
	if !cfg.BackfillEnabled {
		t.Error("BackfillEnabled should default to true")
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want 3", cfg.RetryMaxAttempts)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BATCH_PACING", "300ms")
	t.Setenv("BACKFILL_ENABLED", "false")
	t.Setenv("YOUTUBE_RPS", "2.5")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.BatchPacing != 300*time.Millisecond {
		t.Errorf("BatchPacing = %s, want 300ms", cfg.BatchPacing)
	}
	if cfg.BackfillEnabled {
		t.Error("BackfillEnabled should be false")
	}
	if cfg.YouTubeRPS != 2.5 {
		t.Errorf("YouTubeRPS = %v, want 2.5", cfg.YouTubeRPS)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BATCH_PACING", "soon")
	t.Setenv("RETRY_MAX_ATTEMPTS", "many")

	cfg := Load()
	if cfg.BatchPacing != time.Second {
		t.Errorf("BatchPacing = %s, want fallback 1s", cfg.BatchPacing)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want fallback 3", cfg.RetryMaxAttempts)
	}
}
