package mindmup_tools

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/library"
	"github.com/mupstack/mupdrive/internal/server"
)

// getLibrary retrieves the shared mind map library, surfacing a descriptive
// error when Drive credentials are missing.
func getLibrary(_ context.Context, sc *server.ServerContext) (*library.Library, error) {
	lib, err := sc.Library()
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// RegisterMindmupTools registers all mind map tools with the MCP server.
// Every tool is read-only.
func RegisterMindmupTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerSearchTools(s, sc); err != nil {
		return fmt.Errorf("failed to register search tools: %w", err)
	}

	if err := registerMapTools(s, sc); err != nil {
		return fmt.Errorf("failed to register map tools: %w", err)
	}

	return nil
}
