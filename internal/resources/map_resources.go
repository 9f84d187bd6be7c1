package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/server"
)

// RegisterMapResources registers the mind map library resources.
func RegisterMapResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Discovered mind map files
	filesResource := mcp.NewResource(
		"mupdrive://files",
		"Mind Map Files",
		mcp.WithResourceDescription("Every MindMup mind map file the service account can read"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(filesResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleMapFiles(ctx, request, sc)
	})

	// Connection status
	statusResource := mcp.NewResource(
		"mupdrive://status",
		"Drive Connection Status",
		mcp.WithResourceDescription("Whether the server can reach Google Drive and as which service account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(statusResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleStatus(ctx, request, sc)
	})

	return nil
}

// handleMapFiles lists every discovered mind map file.
func handleMapFiles(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	lib, err := sc.Library()
	if err != nil {
		return nil, err
	}

	files, err := lib.FindMapFiles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to find mind map files: %w", err)
	}

	listing := struct {
		Files []*drive.FileInfo `json:"files"`
		Total int               `json:"total"`
	}{Files: files, Total: len(files)}

	jsonData, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file listing: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleStatus reports Drive connectivity.
func handleStatus(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	status := map[string]interface{}{
		"credentials": sc.HasCredentials(),
		"connected":   false,
	}

	if client, err := sc.DriveClient(); err == nil {
		if email, err := client.About(ctx); err == nil {
			status["connected"] = true
			status["serviceAccount"] = email
		} else {
			status["error"] = err.Error()
		}
	} else {
		status["error"] = err.Error()
	}

	jsonData, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
