package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Intake.CompletionThreshold != 0.7 {
		t.Errorf("expected default completion threshold 0.7, got %v", cfg.Intake.CompletionThreshold)
	}
	if cfg.Safety.HighRiskReply == "" || cfg.Safety.PocsoReply == "" {
		t.Error("expected non-empty safety catalog defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.empath.yml")

	original := DefaultConfig()
	original.Provider = ProviderOllama
	original.Model = "mistral"
	original.Port = 9090
	original.Intake.CompletionThreshold = 0.5
	original.Safety.HighRiskReply = "custom high risk reply"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.Intake.CompletionThreshold != original.Intake.CompletionThreshold {
		t.Errorf("threshold: got %v, want %v", loaded.Intake.CompletionThreshold, original.Intake.CompletionThreshold)
	}
	if loaded.Safety.HighRiskReply != original.Safety.HighRiskReply {
		t.Errorf("high risk reply: got %q, want %q", loaded.Safety.HighRiskReply, original.Safety.HighRiskReply)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected defaults, got provider %q", cfg.Provider)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	t.Setenv("EMPATH_PORT", "3000")
	t.Setenv("EMPATH_INTAKE_COMPLETION_THRESHOLD", "0.6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("port: got %d, want 3000", cfg.Port)
	}
	if cfg.Intake.CompletionThreshold != 0.6 {
		t.Errorf("threshold: got %v, want 0.6", cfg.Intake.CompletionThreshold)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "carrierpigeon" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"bad port", func(c *Config) { c.Port = -1 }},
		{"bad threshold", func(c *Config) { c.Intake.CompletionThreshold = 1.5 }},
		{"empty safety reply", func(c *Config) { c.Safety.PocsoReply = "" }},
		{"bad age limit", func(c *Config) { c.Safety.MinorAgeLimit = 0 }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
