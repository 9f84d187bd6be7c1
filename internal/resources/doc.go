// Package resources provides MCP resources for the mind map library.
// Resources are read-only data sources that MCP clients can fetch, such as
// the list of discovered mind map files and the Drive connection status.
package resources
