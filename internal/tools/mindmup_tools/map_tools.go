package mindmup_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/instrumentation"
	"github.com/mupstack/mupdrive/internal/mindmup"
	"github.com/mupstack/mupdrive/internal/server"
	"github.com/mupstack/mupdrive/internal/tools/common"
)

// registerMapTools registers the single-map retrieval tools
func registerMapTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Full map retrieval
	getMapTool := mcp.NewTool("mindmup_get_map",
		mcp.WithDescription("Download and parse one mind map, returning the full tree with document statistics. Text content beyond the configured limit is truncated and flagged."),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The Drive file ID of the mind map"),
		),
		mcp.WithBoolean("contentOnly",
			mcp.Description("Return only the joined text content instead of the tree (default: false)"),
		),
	)

	s.AddTool(getMapTool, common.InstrumentedToolHandlerWithService(
		"mindmup_get_map", instrumentation.ServiceMindmup, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			fileID := common.GetSourceFromArgs(args)
			if fileID == "" {
				return mcp.NewToolResultError("fileId is required"), nil
			}

			lib, err := getLibrary(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			doc, err := lib.LoadMap(ctx, fileID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to load mind map: %v", err)), nil
			}

			if common.GetBoolArg(args, "contentOnly", false) {
				content, truncated, originalLength := mindmup.TruncateContent(
					mindmup.JoinedText(doc), int(sc.Config().MaxContentBytes))

				response := struct {
					SourceID         string `json:"sourceId"`
					Title            string `json:"title"`
					Content          string `json:"content"`
					ContentTruncated bool   `json:"contentTruncated"`
					OriginalLength   int    `json:"originalLength"`
				}{doc.SourceID, doc.Metadata.Title, content, truncated, originalLength}

				result, _ := json.MarshalIndent(response, "", "  ")
				return mcp.NewToolResultText(string(result)), nil
			}

			result, err := json.MarshalIndent(mindmup.FormatDocument(doc), "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to encode mind map: %v", err)), nil
			}
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Node neighborhood lookup
	getNodeTool := mcp.NewTool("mindmup_get_node",
		mcp.WithDescription("Look up one node in a mind map by id, returning the node with its parent, children, and optionally its siblings."),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The Drive file ID of the mind map"),
		),
		mcp.WithString("nodeId",
			mcp.Required(),
			mcp.Description("The id of the node to look up"),
		),
		mcp.WithBoolean("includeSiblings",
			mcp.Description("Include the node's siblings in the response (default: false)"),
		),
	)

	s.AddTool(getNodeTool, common.InstrumentedToolHandlerWithService(
		"mindmup_get_node", instrumentation.ServiceMindmup, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			fileID := common.GetSourceFromArgs(args)
			if fileID == "" {
				return mcp.NewToolResultError("fileId is required"), nil
			}
			nodeID := common.GetStringArg(args, "nodeId")
			if nodeID == "" {
				return mcp.NewToolResultError("nodeId is required"), nil
			}

			lib, err := getLibrary(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			doc, err := lib.LoadMap(ctx, fileID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to load mind map: %v", err)), nil
			}

			nodeCtx := mindmup.FindNodeContext(doc, nodeID, common.GetBoolArg(args, "includeSiblings", false))
			if nodeCtx == nil {
				return mcp.NewToolResultError(fmt.Sprintf("Node %q not found in %s", nodeID, fileID)), nil
			}

			result, _ := json.MarshalIndent(mindmup.FormatNodeContext(doc, nodeCtx), "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Chunked content retrieval for large maps
	getChunkedTool := mcp.NewTool("mindmup_get_chunked_content",
		mcp.WithDescription("Retrieve a mind map's text content in fixed-size chunks of node titles, for maps too large to return at once."),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The Drive file ID of the mind map"),
		),
		mcp.WithNumber("chunkSize",
			mcp.Description("Number of node titles per chunk (default: 50)"),
		),
		mcp.WithNumber("chunkId",
			mcp.Description("Return only this chunk; omit to get every chunk plus totals"),
		),
	)

	s.AddTool(getChunkedTool, common.InstrumentedToolHandlerWithService(
		"mindmup_get_chunked_content", instrumentation.ServiceMindmup, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			fileID := common.GetSourceFromArgs(args)
			if fileID == "" {
				return mcp.NewToolResultError("fileId is required"), nil
			}

			lib, err := getLibrary(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			doc, err := lib.LoadMap(ctx, fileID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to load mind map: %v", err)), nil
			}

			chunks := mindmup.ChunkContent(doc, common.GetIntArg(args, "chunkSize", 50))

			if chunkID := common.GetIntArg(args, "chunkId", -1); chunkID >= 0 {
				if chunkID >= len(chunks) {
					return mcp.NewToolResultError(fmt.Sprintf("Chunk %d out of range; map has %d chunks", chunkID, len(chunks))), nil
				}
				result, _ := json.MarshalIndent(chunks[chunkID], "", "  ")
				return mcp.NewToolResultText(string(result)), nil
			}

			response := struct {
				SourceID    string          `json:"sourceId"`
				Title       string          `json:"title"`
				TotalChunks int             `json:"totalChunks"`
				TotalNodes  int             `json:"totalNodes"`
				Chunks      []mindmup.Chunk `json:"chunks"`
			}{doc.SourceID, doc.Metadata.Title, len(chunks), doc.NodeCount(), chunks}

			result, _ := json.MarshalIndent(response, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}
