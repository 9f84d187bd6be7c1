// Package drive_tools provides MCP tools for browsing Google Drive.
//
// All tools are read-only: listing files and folders, fetching metadata,
// and downloading content. Batch tools accept a single file ID or an array
// of IDs and report per-file failures without failing the whole call.
package drive_tools
