// Package library combines the Drive client with the MindMup parser into the
// file-level operations the MCP tools expose: discover mind-map files
// (optionally walking a folder tree), load and parse single files, and the
// batch search-and-parse pipeline with per-document failure reporting.
//
// The package depends on the Storage interface rather than the concrete
// Drive client so the pipeline can be exercised in tests without network
// access.
package library
