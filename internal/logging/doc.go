// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase
// (operation, service, tool, source_id, status, error) together with
// convenience constructors so call sites stay consistent, plus a small
// Logger interface for components that should not depend on slog directly.
package logging
