package drive_tools

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/server"
)

// getDriveClient retrieves the shared Drive client, surfacing a descriptive
// error when service account credentials are missing.
func getDriveClient(_ context.Context, sc *server.ServerContext) (*drive.Client, error) {
	client, err := sc.DriveClient()
	if err != nil {
		return nil, err
	}
	return client, nil
}

// RegisterDriveTools registers all Google Drive tools with the MCP server.
// Every tool is read-only; the server never mutates Drive state.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerFileTools(s, sc); err != nil {
		return fmt.Errorf("failed to register file tools: %w", err)
	}

	if err := registerFolderTools(s, sc); err != nil {
		return fmt.Errorf("failed to register folder tools: %w", err)
	}

	return nil
}
