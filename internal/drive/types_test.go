package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileInfo_IsFolder(t *testing.T) {
	assert.True(t, (&FileInfo{MimeType: FolderMimeType}).IsFolder())
	assert.False(t, (&FileInfo{MimeType: JSONMimeType}).IsFolder())
}

func TestFileInfo_IsMindmup(t *testing.T) {
	tests := []struct {
		name     string
		file     FileInfo
		expected bool
	}{
		{
			name:     "mindmup mime type",
			file:     FileInfo{Name: "anything", MimeType: MindmupMimeType},
			expected: true,
		},
		{
			name:     "mup extension",
			file:     FileInfo{Name: "roadmap.mup", MimeType: "application/octet-stream"},
			expected: true,
		},
		{
			name:     "mup extension with suffix",
			file:     FileInfo{Name: "roadmap.mup.bak", MimeType: "application/octet-stream"},
			expected: true,
		},
		{
			name:     "mindmup in name",
			file:     FileInfo{Name: "my mindmup export", MimeType: "text/plain"},
			expected: true,
		},
		{
			name:     "mindmap in name",
			file:     FileInfo{Name: "Team Mindmap 2026", MimeType: "text/plain"},
			expected: true,
		},
		{
			name:     "json with map-ish name",
			file:     FileInfo{Name: "product map.json", MimeType: JSONMimeType},
			expected: true,
		},
		{
			name:     "json without map-ish name",
			file:     FileInfo{Name: "config.json", MimeType: JSONMimeType},
			expected: false,
		},
		{
			name:     "unrelated file",
			file:     FileInfo{Name: "report.pdf", MimeType: "application/pdf"},
			expected: false,
		},
		{
			name:     "name heuristics apply regardless of mime type",
			file:     FileInfo{Name: "mindmaps", MimeType: FolderMimeType},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.file.IsMindmup())
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name           string
		nameContains   string
		folderID       string
		mimeType       string
		includeTrashed bool
		expected       string
	}{
		{
			name:     "defaults exclude trashed",
			expected: "trashed=false",
		},
		{
			name:           "include trashed yields empty query",
			includeTrashed: true,
			expected:       "",
		},
		{
			name:         "all conditions",
			nameContains: "plan",
			folderID:     "folder1",
			mimeType:     JSONMimeType,
			expected:     "trashed=false and 'folder1' in parents and name contains 'plan' and mimeType='application/json'",
		},
		{
			name:         "quotes escaped",
			nameContains: "bob's plan",
			expected:     `trashed=false and name contains 'bob\'s plan'`,
		},
		{
			name:         "backslashes escaped",
			nameContains: `a\b`,
			expected:     `trashed=false and name contains 'a\\b'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildQuery(tt.nameContains, tt.folderID, tt.mimeType, tt.includeTrashed)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMindmupQuery(t *testing.T) {
	unscoped := MindmupQuery("")
	assert.Contains(t, unscoped, "trashed=false")
	assert.Contains(t, unscoped, "name contains '.mup'")
	assert.Contains(t, unscoped, MindmupMimeType)
	assert.NotContains(t, unscoped, "in parents")

	scoped := MindmupQuery("folder9")
	assert.Contains(t, scoped, "'folder9' in parents")
}

func TestFolderQuery(t *testing.T) {
	assert.Equal(t, "trashed=false and mimeType='"+FolderMimeType+"'", FolderQuery(""))
	assert.Equal(t, "'p1' in parents and trashed=false and mimeType='"+FolderMimeType+"'", FolderQuery("p1"))
}
