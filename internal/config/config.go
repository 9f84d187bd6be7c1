package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Defaults for limits that guard the parser and the tool responses.
const (
	// DefaultMaxDepth is the maximum nesting depth accepted by the tree builder.
	DefaultMaxDepth = 100

	// DefaultMaxDocumentBytes is the maximum size of a single MindMup document.
	DefaultMaxDocumentBytes = 10 * 1024 * 1024

	// DefaultMaxContentBytes is the truncation limit for extracted text content
	// returned over the MCP boundary.
	DefaultMaxContentBytes = 1024 * 1024
)

// defaultCredentialPaths are probed in order when GOOGLE_DRIVE_CREDENTIALS_FILE
// is not set.
var defaultCredentialPaths = []string{
	"deployment/credentials/google_service_account.json",
	"credentials/google_service_account.json",
	"google_service_account.json",
}

// Config holds process-wide settings. It is built once at startup, validated,
// and passed by reference into the components that need it. Nothing mutates it
// after Load returns.
type Config struct {
	// CredentialsFile is the path to the Google service account JSON key.
	CredentialsFile string

	// MaxDepth bounds the recursion of the tree builder.
	MaxDepth int

	// MaxDocumentBytes bounds the size of a single document handed to the builder.
	MaxDocumentBytes int64

	// MaxContentBytes bounds the extracted text content in tool responses.
	// Longer content is truncated and flagged, never dropped silently.
	MaxContentBytes int

	// CaseSensitiveTitles sets the default for title matching in searches.
	CaseSensitiveTitles bool
}

// Default returns a Config populated with defaults and environment overrides.
func Default() Config {
	cfg := Config{
		CredentialsFile:     os.Getenv("GOOGLE_DRIVE_CREDENTIALS_FILE"),
		MaxDepth:            getEnvIntOrDefault("MUPDRIVE_MAX_DEPTH", DefaultMaxDepth),
		MaxDocumentBytes:    int64(getEnvIntOrDefault("MUPDRIVE_MAX_DOCUMENT_BYTES", DefaultMaxDocumentBytes)),
		MaxContentBytes:     getEnvIntOrDefault("MUPDRIVE_MAX_CONTENT_BYTES", DefaultMaxContentBytes),
		CaseSensitiveTitles: os.Getenv("MUPDRIVE_CASE_SENSITIVE_TITLES") == "true",
	}

	if cfg.CredentialsFile == "" {
		for _, path := range defaultCredentialPaths {
			if _, err := os.Stat(path); err == nil {
				cfg.CredentialsFile = path
				break
			}
		}
	}

	return cfg
}

// Validate checks the configuration. A failure here is fatal at startup;
// no other configuration error may crash the process later.
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("max document size must be positive, got %d", c.MaxDocumentBytes)
	}
	if c.MaxContentBytes <= 0 {
		return fmt.Errorf("max content size must be positive, got %d", c.MaxContentBytes)
	}
	if c.CredentialsFile != "" {
		if _, err := os.Stat(c.CredentialsFile); err != nil {
			return fmt.Errorf("credentials file %s not readable: %w", filepath.Clean(c.CredentialsFile), err)
		}
	}
	return nil
}

// getEnvIntOrDefault returns the integer value of an environment variable or a default value.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
