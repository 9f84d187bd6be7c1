package drive_tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/instrumentation"
	"github.com/mupstack/mupdrive/internal/server"
	"github.com/mupstack/mupdrive/internal/tools/batch"
	"github.com/mupstack/mupdrive/internal/tools/common"
)

// downloadResult is the per-file payload of drive_download_files.
type downloadResult struct {
	FileID           string `json:"fileId"`
	Content          string `json:"content"`
	Encoding         string `json:"encoding"` // "utf-8" or "base64"
	ContentTruncated bool   `json:"contentTruncated"`
	OriginalLength   int64  `json:"originalLength"`
}

// registerFileTools registers file listing, metadata, and download tools
func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List files tool
	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List files in Google Drive with optional filtering"),
		mcp.WithString("query",
			mcp.Description("Query for filtering files using Google Drive's query language (e.g., \"name contains 'report'\", \"mimeType='application/json'\"). Overrides the structured filters below."),
		),
		mcp.WithString("nameContains",
			mcp.Description("Filter to files whose name contains this text"),
		),
		mcp.WithString("folderId",
			mcp.Description("Filter to files inside this folder"),
		),
		mcp.WithString("mimeType",
			mcp.Description("Filter to files of this MIME type"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to return (default: 100, max: 1000)"),
		),
		mcp.WithString("orderBy",
			mcp.Description("Sort order (e.g., 'modifiedTime desc', 'name'). Default: 'modifiedTime desc'"),
		),
		mcp.WithBoolean("includeTrashed",
			mcp.Description("Include trashed files in results (default: false)"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_list_files", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			client, err := getDriveClient(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			includeTrashed := common.GetBoolArg(args, "includeTrashed", false)

			query := common.GetStringArg(args, "query")
			if query == "" {
				query = drive.BuildQuery(
					common.GetStringArg(args, "nameContains"),
					common.GetFolderFromArgs(args),
					common.GetStringArg(args, "mimeType"),
					includeTrashed,
				)
			}

			options := &drive.ListOptions{
				Query:          query,
				MaxResults:     common.GetIntArg(args, "maxResults", 100),
				OrderBy:        common.GetStringArg(args, "orderBy"),
				IncludeTrashed: includeTrashed,
			}

			files, nextPageToken, err := client.ListFiles(ctx, options)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
			}

			response := struct {
				Files         []*drive.FileInfo `json:"files"`
				NextPageToken string            `json:"nextPageToken,omitempty"`
			}{Files: files, NextPageToken: nextPageToken}

			result, _ := json.MarshalIndent(response, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Get file metadata tool (accepts single ID or array)
	getFilesTool := mcp.NewTool("drive_get_files",
		mcp.WithDescription("Get metadata for one or more Google Drive files. Accepts a single file ID or an array of IDs; per-file failures are reported without failing the batch."),
		mcp.WithString("fileIds",
			mcp.Required(),
			mcp.Description("A file ID or array of file IDs"),
		),
	)

	s.AddTool(getFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_get_files", instrumentation.ServiceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			fileIDs, err := batch.ParseStringOrArray(args["fileIds"], "fileIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getDriveClient(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatchContext(ctx, fileIDs, func(ctx context.Context, id string) (string, error) {
				info, err := client.GetFile(ctx, id)
				if err != nil {
					return "", err
				}
				encoded, err := json.Marshal(info)
				if err != nil {
					return "", err
				}
				return string(encoded), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	// Download files tool (accepts single ID or array)
	downloadFilesTool := mcp.NewTool("drive_download_files",
		mcp.WithDescription("Download the content of one or more Google Drive files. Content larger than the configured limit is truncated and flagged."),
		mcp.WithString("fileIds",
			mcp.Required(),
			mcp.Description("A file ID or array of file IDs"),
		),
		mcp.WithBoolean("asBase64",
			mcp.Description("Return content base64-encoded (default: false; forced on for content that is not valid UTF-8)"),
		),
	)

	s.AddTool(downloadFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_download_files", instrumentation.ServiceDrive, instrumentation.OperationDownload, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			fileIDs, err := batch.ParseStringOrArray(args["fileIds"], "fileIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getDriveClient(ctx, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			asBase64 := common.GetBoolArg(args, "asBase64", false)
			maxBytes := int64(sc.Config().MaxContentBytes)

			results := batch.ProcessBatchContext(ctx, fileIDs, func(ctx context.Context, id string) (string, error) {
				reader, err := client.DownloadFile(ctx, id)
				if err != nil {
					return "", err
				}
				defer reader.Close()

				// One extra byte distinguishes an exactly-at-limit file from
				// a truncated one.
				content, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
				if err != nil {
					return "", fmt.Errorf("failed to read content of file %s: %w", id, err)
				}

				if metrics := sc.Metrics(); metrics != nil {
					metrics.RecordDriveDownload(ctx, int64(len(content)))
				}

				dr := downloadResult{
					FileID:         id,
					OriginalLength: int64(len(content)),
				}
				if int64(len(content)) > maxBytes {
					content = content[:maxBytes]
					dr.ContentTruncated = true
					// The Drive metadata carries the full size; fall back to
					// "at least limit+1" when it is unavailable.
					if info, infoErr := client.GetFile(ctx, id); infoErr == nil && info.Size > 0 {
						dr.OriginalLength = info.Size
					}
				}

				if asBase64 || !utf8.Valid(content) {
					dr.Content = base64.StdEncoding.EncodeToString(content)
					dr.Encoding = "base64"
				} else {
					dr.Content = string(content)
					dr.Encoding = "utf-8"
				}

				encoded, err := json.Marshal(dr)
				if err != nil {
					return "", err
				}
				return string(encoded), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	return nil
}
