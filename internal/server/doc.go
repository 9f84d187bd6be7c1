// Package server provides the MCP server context, transports, and
// operational endpoints for the mupdrive application.
//
// # Key Components
//
// ServerContext manages the Google Drive client and the mind map library
// with lazy initialization and caching. The Drive client authenticates with
// a service account key, so the server can start before credentials exist
// and pick them up on first use.
//
// HTTPServer serves the MCP protocol over streamable HTTP on /mcp and
// registers Kubernetes probe endpoints (/healthz, /readyz,
// /healthz/detailed). Session activity is tracked via the Mcp-Session-Id
// header to drive the active_sessions gauge.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, keeping
// operational metrics off the MCP endpoint.
//
// The server performs no write operations against Drive; every tool it
// exposes reads file listings or file content only.
package server
