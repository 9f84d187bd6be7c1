package drive

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mupstack/mupdrive/internal/google"
	"github.com/mupstack/mupdrive/internal/instrumentation"
)

// listFields are the file fields requested on every listing call.
const listFields = "nextPageToken, files(id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents, shared, starred, ownedByMe)"

// Client wraps the Google Drive API service for read-only access.
type Client struct {
	service *drive.Service
}

// HasCredentials checks whether a service account key exists at the given path.
func HasCredentials(credentialsFile string) bool {
	return google.HasCredentials(credentialsFile)
}

// NewClient creates a new read-only Google Drive client authenticated with
// the service account key at credentialsFile.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load Drive credentials: %w", err)
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// About verifies connectivity by fetching the authenticated account identity.
func (c *Client) About(ctx context.Context) (string, error) {
	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationAbout)
	defer span.End()

	about, err := c.service.About.Get().
		Context(ctx).
		Fields("user(emailAddress)").
		Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return "", fmt.Errorf("failed to query Drive account: %w", err)
	}
	instrumentation.SetSpanSuccess(span)
	if about.User == nil {
		return "", nil
	}
	return about.User.EmailAddress, nil
}

// ListFiles lists files in Google Drive with optional filtering
func (c *Client) ListFiles(ctx context.Context, options *ListOptions) ([]*FileInfo, string, error) {
	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationList)
	defer span.End()

	call := c.service.Files.List().
		Context(ctx).
		Fields(listFields).
		OrderBy("modifiedTime desc")

	if options != nil {
		if options.Query != "" {
			call = call.Q(options.Query)
		} else if !options.IncludeTrashed {
			call = call.Q("trashed=false")
		}
		if options.MaxResults > 0 {
			pageSize := options.MaxResults
			if pageSize > 1000 {
				pageSize = 1000
			}
			call = call.PageSize(int64(pageSize))
		}
		if options.OrderBy != "" {
			call = call.OrderBy(options.OrderBy)
		}
		if options.PageToken != "" {
			call = call.PageToken(options.PageToken)
		}
	} else {
		call = call.Q("trashed=false")
	}

	fileList, err := call.Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, "", fmt.Errorf("failed to list files: %w", err)
	}
	instrumentation.SetSpanSuccess(span)

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, fileList.NextPageToken, nil
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationGet,
		attribute.String(instrumentation.SpanAttrSourceID, fileID))
	defer span.End()

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields("id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents, shared, starred, ownedByMe").
		Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, mapAPIError(err, fileID)
	}
	instrumentation.SetSpanSuccess(span)

	return convertToFileInfo(file), nil
}

// DownloadFile downloads the content of a file
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationDownload,
		attribute.String(instrumentation.SpanAttrSourceID, fileID))
	defer span.End()

	resp, err := c.service.Files.Get(fileID).
		Context(ctx).
		Download()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, mapAPIError(err, fileID)
	}
	instrumentation.SetSpanSuccess(span)

	return resp.Body, nil
}

// DownloadBytes downloads the content of a file into memory, refusing
// payloads larger than maxBytes. A maxBytes of zero disables the bound.
func (c *Client) DownloadBytes(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	reader, err := c.DownloadFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var limited io.Reader = reader
	if maxBytes > 0 {
		// Read one extra byte so an exactly-at-limit file is distinguishable
		// from an oversized one.
		limited = io.LimitReader(reader, maxBytes+1)
	}

	content, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of file %s: %w", fileID, err)
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("file %s exceeds the %d byte download limit", fileID, maxBytes)
	}

	return content, nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
		Shared:      f.Shared,
		Starred:     f.Starred,
		OwnedByMe:   f.OwnedByMe,
	}

	// Parse timestamps
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
