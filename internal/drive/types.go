package drive

import (
	"fmt"
	"strings"
	"time"
)

// MIME types recognized by the file heuristics.
const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// MindmupMimeType is the MIME type MindMup assigns to maps it saves
	MindmupMimeType = "application/vnd.mindmup"

	// JSONMimeType is the generic JSON MIME type
	JSONMimeType = "application/json"
)

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes (not populated for folders)
	Size int64 `json:"size,omitempty"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modifiedTime"`

	// WebViewLink is a link for opening the file in a relevant Google editor or viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`

	// Shared indicates whether the file is shared
	Shared bool `json:"shared"`

	// Starred indicates whether the user starred the file
	Starred bool `json:"starred"`

	// OwnedByMe indicates whether the requesting account owns the file
	OwnedByMe bool `json:"ownedByMe"`
}

// IsFolder reports whether the file is a Drive folder.
func (f *FileInfo) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// IsMindmup reports whether the file looks like a MindMup mind map.
// MindMup files in the wild carry inconsistent metadata, so this checks the
// dedicated MIME type, the .mup extension, name keywords, and JSON files
// with map-ish names, in that order.
func (f *FileInfo) IsMindmup() bool {
	if f.MimeType == MindmupMimeType {
		return true
	}

	name := strings.ToLower(f.Name)
	if strings.HasSuffix(name, ".mup") ||
		strings.Contains(name, ".mup") ||
		strings.Contains(name, "mindmup") ||
		strings.Contains(name, "mindmap") ||
		strings.Contains(name, "mind map") {
		return true
	}

	if f.MimeType == JSONMimeType &&
		(strings.Contains(name, "mind") ||
			strings.Contains(name, "map") ||
			strings.Contains(name, "diagram")) {
		return true
	}

	return false
}

// ListOptions contains options for listing files
type ListOptions struct {
	// Query is a query for filtering the file results using Google Drive's query language
	// See https://developers.google.com/drive/api/guides/search-files
	// Examples:
	//   "name contains 'report'"
	//   "mimeType='application/json'"
	//   "'folderId' in parents"
	Query string

	// MaxResults is the maximum number of files to return (max: 1000)
	MaxResults int

	// OrderBy specifies the sort order of the result set
	// Examples: "folder,modifiedTime desc,name"
	OrderBy string

	// PageToken is a token for retrieving the next page of results
	PageToken string

	// IncludeTrashed includes trashed files in results
	IncludeTrashed bool
}

// BuildQuery assembles a Drive query string from structured conditions.
// Empty arguments contribute no condition; trashed files are always
// excluded unless includeTrashed is set.
func BuildQuery(nameContains, folderID, mimeType string, includeTrashed bool) string {
	var conditions []string

	if !includeTrashed {
		conditions = append(conditions, "trashed=false")
	}
	if folderID != "" {
		conditions = append(conditions, fmt.Sprintf("'%s' in parents", escapeQueryValue(folderID)))
	}
	if nameContains != "" {
		conditions = append(conditions, fmt.Sprintf("name contains '%s'", escapeQueryValue(nameContains)))
	}
	if mimeType != "" {
		conditions = append(conditions, fmt.Sprintf("mimeType='%s'", escapeQueryValue(mimeType)))
	}

	return strings.Join(conditions, " and ")
}

// MindmupQuery returns the Drive query used to discover mind-map candidates,
// optionally scoped to one folder. The query is deliberately broad; the
// IsMindmup heuristics narrow the listing afterwards.
func MindmupQuery(folderID string) string {
	query := "trashed=false and (name contains '.mup' or name contains 'mindmup' or name contains 'mindmap' or mimeType='" + MindmupMimeType + "')"
	if folderID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", escapeQueryValue(folderID), query)
	}
	return query
}

// FolderQuery returns the Drive query matching non-trashed folders,
// optionally scoped to one parent folder.
func FolderQuery(parentID string) string {
	query := "trashed=false and mimeType='" + FolderMimeType + "'"
	if parentID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", escapeQueryValue(parentID), query)
	}
	return query
}

// escapeQueryValue escapes characters with meaning inside Drive query string
// literals. Single quotes delimit values, and backslashes escape.
func escapeQueryValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
