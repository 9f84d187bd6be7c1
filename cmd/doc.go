// Package cmd implements the command-line interface for mupdrive.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing MindMup maps in Google Drive
//   - parse: Parse and search local .mup files without touching Drive
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
