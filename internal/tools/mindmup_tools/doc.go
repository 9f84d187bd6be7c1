// Package mindmup_tools provides MCP tools for finding, parsing, and
// searching MindMup mind maps stored in Google Drive.
//
// Discovery tools locate .mup files by MIME type and name heuristics,
// walking folder scopes recursively. Retrieval tools download and parse a
// single map into its tree form, with chunked and node-level views for
// large documents. Search tools parse every map in scope and match node
// titles and attributes, reporting per-file parse failures alongside the
// matches rather than failing the batch.
package mindmup_tools
