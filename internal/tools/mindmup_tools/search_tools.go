package mindmup_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/instrumentation"
	"github.com/mupstack/mupdrive/internal/library"
	"github.com/mupstack/mupdrive/internal/mindmup"
	"github.com/mupstack/mupdrive/internal/server"
	"github.com/mupstack/mupdrive/internal/tools/common"
)

// criteriaFromArgs assembles search criteria from tool arguments. The
// server-wide case sensitivity default applies unless the call overrides it.
func criteriaFromArgs(args map[string]interface{}, sc *server.ServerContext) mindmup.Criteria {
	return mindmup.Criteria{
		TitleContains:  common.GetStringArg(args, "titleContains"),
		AttributeKey:   common.GetStringArg(args, "attributeKey"),
		AttributeValue: attributeValueFromArgs(args),
		MaxDepth:       common.GetIntArg(args, "maxDepth", 0),
		CaseSensitive:  common.GetBoolArg(args, "caseSensitive", sc.Config().CaseSensitiveTitles),
		FolderScope:    common.GetFolderFromArgs(args),
	}
}

// attributeValueFromArgs keeps the attribute value untyped: MindMup stores
// strings, numbers, and booleans under attr, and equality is checked against
// whatever shape the document carries.
func attributeValueFromArgs(args map[string]interface{}) any {
	if value, ok := args["attributeValue"]; ok {
		return value
	}
	return nil
}

// registerSearchTools registers the discovery and search tools
func registerSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Search for mind map files (metadata only, no parsing)
	searchFilesTool := mcp.NewTool("mindmup_search_files",
		mcp.WithDescription("Find MindMup mind map files in Google Drive. Recognizes the MindMup MIME type, .mup files, and JSON files with map-like names. Walks folders recursively when a folder scope is given."),
		mcp.WithString("folderId",
			mcp.Description("Folder to search in, recursively (default: everything the service account can read)"),
		),
		mcp.WithString("nameContains",
			mcp.Description("Only return files whose name contains this text"),
		),
	)

	s.AddTool(searchFilesTool, common.InstrumentedToolHandlerWithService(
		"mindmup_search_files", instrumentation.ServiceDrive, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			lib, err := getLibrary(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			files, err := lib.FindMapFiles(ctx, common.GetFolderFromArgs(args))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to find mind map files: %v", err)), nil
			}

			if nameContains := common.GetStringArg(args, "nameContains"); nameContains != "" {
				needle := strings.ToLower(nameContains)
				filtered := files[:0]
				for _, f := range files {
					if strings.Contains(strings.ToLower(f.Name), needle) {
						filtered = append(filtered, f)
					}
				}
				files = filtered
			}

			response := struct {
				Files []*drive.FileInfo `json:"files"`
				Total int               `json:"total"`
			}{Files: files, Total: len(files)}

			result, _ := json.MarshalIndent(response, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Search node titles/attributes across all maps in scope
	searchAndParseTool := mcp.NewTool("mindmup_search_and_parse",
		mcp.WithDescription("Discover, parse, and search mind maps in one call. Returns matching nodes with their path from the root; files that fail to parse are reported alongside the matches."),
		mcp.WithString("folderId",
			mcp.Description("Folder to search in, recursively (default: everything the service account can read)"),
		),
		mcp.WithString("titleContains",
			mcp.Description("Match nodes whose title contains this text (case-insensitive unless caseSensitive is set)"),
		),
		mcp.WithString("attributeKey",
			mcp.Description("Match nodes carrying this attribute key"),
		),
		mcp.WithString("attributeValue",
			mcp.Description("Value the attribute must equal (requires attributeKey)"),
		),
		mcp.WithNumber("maxDepth",
			mcp.Description("Only match nodes at most this deep; the root is depth 0 (default: unbounded)"),
		),
		mcp.WithBoolean("caseSensitive",
			mcp.Description("Match titles with exact case (default: server configuration)"),
		),
	)

	s.AddTool(searchAndParseTool, common.InstrumentedToolHandlerWithService(
		"mindmup_search_and_parse", instrumentation.ServiceMindmup, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			lib, err := getLibrary(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			criteria := criteriaFromArgs(args, sc)

			entries, err := lib.SearchAndParse(ctx, criteria.FolderScope)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to load mind maps: %v", err)), nil
			}

			docs, errs := library.Documents(entries)
			results := mindmup.SearchDocuments(docs, criteria)

			encoded, err := mindmup.EncodeResponse(mindmup.Format(results, errs))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to encode response: %v", err)), nil
			}
			return mcp.NewToolResultText(string(encoded)), nil
		}))

	// Free-text search over map content
	searchContentTool := mcp.NewTool("mindmup_search_content",
		mcp.WithDescription("Search the text content of mind maps for a phrase. Returns, per map, whether it matched and the matching node titles."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for in node titles"),
		),
		mcp.WithString("folderId",
			mcp.Description("Folder to search in, recursively (default: everything the service account can read)"),
		),
		mcp.WithBoolean("caseSensitive",
			mcp.Description("Match with exact case (default: server configuration)"),
		),
	)

	s.AddTool(searchContentTool, common.InstrumentedToolHandlerWithService(
		"mindmup_search_content", instrumentation.ServiceMindmup, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			query := common.GetStringArg(args, "query")
			if query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}

			lib, err := getLibrary(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			entries, err := lib.SearchAndParse(ctx, common.GetFolderFromArgs(args))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to load mind maps: %v", err)), nil
			}

			docs, errs := library.Documents(entries)
			criteria := mindmup.Criteria{
				TitleContains: query,
				CaseSensitive: common.GetBoolArg(args, "caseSensitive", sc.Config().CaseSensitiveTitles),
			}
			results := mindmup.SearchDocuments(docs, criteria)

			encoded, err := mindmup.EncodeResponse(mindmup.Format(results, errs))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to encode response: %v", err)), nil
			}
			return mcp.NewToolResultText(string(encoded)), nil
		}))

	return nil
}
