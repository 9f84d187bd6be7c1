// Package batch provides common utilities for batch operations across all MCP tools.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single file IDs and arrays of IDs
//   - Formatting batch results in a consistent structure
//   - Processing batches of Drive documents with partial-failure reporting
package batch
