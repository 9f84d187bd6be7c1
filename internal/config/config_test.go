package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if cfg.MaxDocumentBytes != DefaultMaxDocumentBytes {
		t.Errorf("MaxDocumentBytes = %d, want %d", cfg.MaxDocumentBytes, DefaultMaxDocumentBytes)
	}
	if cfg.MaxContentBytes != DefaultMaxContentBytes {
		t.Errorf("MaxContentBytes = %d, want %d", cfg.MaxContentBytes, DefaultMaxContentBytes)
	}
	if cfg.CaseSensitiveTitles {
		t.Error("CaseSensitiveTitles should default to false")
	}
}

func TestDefault_EnvOverrides(t *testing.T) {
	t.Setenv("MUPDRIVE_MAX_DEPTH", "25")
	t.Setenv("MUPDRIVE_MAX_DOCUMENT_BYTES", "2048")
	t.Setenv("MUPDRIVE_MAX_CONTENT_BYTES", "512")
	t.Setenv("MUPDRIVE_CASE_SENSITIVE_TITLES", "true")
	t.Setenv("GOOGLE_DRIVE_CREDENTIALS_FILE", "/tmp/creds.json")

	cfg := Default()

	if cfg.MaxDepth != 25 {
		t.Errorf("MaxDepth = %d, want 25", cfg.MaxDepth)
	}
	if cfg.MaxDocumentBytes != 2048 {
		t.Errorf("MaxDocumentBytes = %d, want 2048", cfg.MaxDocumentBytes)
	}
	if cfg.MaxContentBytes != 512 {
		t.Errorf("MaxContentBytes = %d, want 512", cfg.MaxContentBytes)
	}
	if !cfg.CaseSensitiveTitles {
		t.Error("CaseSensitiveTitles should be true")
	}
	if cfg.CredentialsFile != "/tmp/creds.json" {
		t.Errorf("CredentialsFile = %q, want /tmp/creds.json", cfg.CredentialsFile)
	}
}

func TestDefault_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("MUPDRIVE_MAX_DEPTH", "not-a-number")

	cfg := Default()

	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want default %d", cfg.MaxDepth, DefaultMaxDepth)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		MaxDepth:         10,
		MaxDocumentBytes: 1024,
		MaxContentBytes:  1024,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }},
		{"zero document bytes", func(c *Config) { c.MaxDocumentBytes = 0 }},
		{"zero content bytes", func(c *Config) { c.MaxContentBytes = 0 }},
		{"missing credentials file", func(c *Config) { c.CredentialsFile = "/nonexistent/creds.json" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidate_ExistingCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		MaxDepth:         10,
		MaxDocumentBytes: 1024,
		MaxContentBytes:  1024,
		CredentialsFile:  path,
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config with existing credentials file rejected: %v", err)
	}
}
