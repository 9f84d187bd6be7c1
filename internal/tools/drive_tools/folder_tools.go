package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/instrumentation"
	"github.com/mupstack/mupdrive/internal/server"
	"github.com/mupstack/mupdrive/internal/tools/common"
)

// registerFolderTools registers folder listing tools
func registerFolderTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listFoldersTool := mcp.NewTool("drive_list_folders",
		mcp.WithDescription("List folders accessible to the service account, optionally scoped to a parent folder"),
		mcp.WithString("folderId",
			mcp.Description("Parent folder ID to list folders under (default: all accessible folders)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of folders to return (default: 100, max: 1000)"),
		),
	)

	s.AddTool(listFoldersTool, common.InstrumentedToolHandlerWithService(
		"drive_list_folders", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			client, err := getDriveClient(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			options := &drive.ListOptions{
				Query:      drive.FolderQuery(common.GetFolderFromArgs(args)),
				MaxResults: common.GetIntArg(args, "maxResults", 100),
				OrderBy:    "name",
			}

			folders, nextPageToken, err := client.ListFiles(ctx, options)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list folders: %v", err)), nil
			}

			response := struct {
				Folders       []*drive.FileInfo `json:"folders"`
				NextPageToken string            `json:"nextPageToken,omitempty"`
			}{Folders: folders, NextPageToken: nextPageToken}

			result, _ := json.MarshalIndent(response, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}
