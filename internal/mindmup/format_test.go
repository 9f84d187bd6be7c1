package mindmup

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Matches(t *testing.T) {
	doc := searchFixture(t)
	results := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "Integration"})

	response := Format(results, nil)

	assert.Equal(t, 1, response.Total)
	require.Len(t, response.Matches, 1)
	match := response.Matches[0]
	assert.Equal(t, "fixture", match.SourceID)
	assert.Equal(t, "t2", match.NodeID)
	assert.Equal(t, "Integration", match.Title)
	assert.Equal(t, 2, match.Depth)
	assert.Equal(t, []string{"Project", "Testing", "Integration"}, match.Path)
	assert.Equal(t, 0, match.ChildrenCount)
}

func TestFormat_CarriesErrorsAlongsideMatches(t *testing.T) {
	doc := searchFixture(t)
	results := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "Deployment"})
	errs := []BatchError{{SourceID: "broken-file", Err: &ParseError{Offset: 12, Err: assert.AnError}}}

	response := Format(results, errs)

	assert.Equal(t, 1, response.Total)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "broken-file", response.Errors[0].SourceID)
	assert.Contains(t, response.Errors[0].Error, "byte 12")
}

func TestEncodeResponse_Deterministic(t *testing.T) {
	doc := searchFixture(t)
	results := SearchDocuments([]*Document{doc}, Criteria{})

	first, err := EncodeResponse(Format(results, nil))
	require.NoError(t, err)
	second, err := EncodeResponse(Format(results, nil))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestEncodeResponse_EmptyMatchesIsArray(t *testing.T) {
	encoded, err := EncodeResponse(Format(nil, nil))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "[]", strings.TrimSpace(string(decoded["matches"])))
}

func TestJoinedText(t *testing.T) {
	doc := buildTestDoc(t, "s", `{"title": "a", "ideas": {"1": {"title": "b", "ideas": {"1": {"title": "c"}}}, "2": {"title": "d"}}}`)
	assert.Equal(t, "a b c d", JoinedText(doc))
}

func TestTruncateContent(t *testing.T) {
	content, truncated, original := TruncateContent("hello world", 5)
	assert.Equal(t, "hello", content)
	assert.True(t, truncated)
	assert.Equal(t, 11, original)

	content, truncated, original = TruncateContent("short", 100)
	assert.Equal(t, "short", content)
	assert.False(t, truncated)
	assert.Equal(t, 5, original)

	content, truncated, _ = TruncateContent("anything", 0)
	assert.Equal(t, "anything", content)
	assert.False(t, truncated)
}

func TestChunkContent(t *testing.T) {
	doc := buildTestDoc(t, "s", `{"title": "a", "ideas": {"1": {"title": "b"}, "2": {"title": "c"}, "3": {"title": "d"}, "4": {"title": "e"}}}`)

	chunks := ChunkContent(doc, 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].ChunkID)
	assert.Equal(t, "a b", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].StartNode)
	assert.Equal(t, 1, chunks[0].EndNode)
	assert.Equal(t, 2, chunks[0].NodeCount)
	assert.Equal(t, "c d", chunks[1].Content)
	assert.Equal(t, "e", chunks[2].Content)
	assert.Equal(t, 1, chunks[2].NodeCount)
}

func TestChunkContent_DefaultSize(t *testing.T) {
	doc := buildTestDoc(t, "s", `{"title": "only"}`)

	chunks := ChunkContent(doc, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, "only", chunks[0].Content)
}

func TestFormatNodeContext(t *testing.T) {
	doc := searchFixture(t)
	ctx := FindNodeContext(doc, "t", true)
	require.NotNil(t, ctx)

	formatted := FormatNodeContext(doc, ctx)

	assert.Equal(t, "t", formatted.Node.NodeID)
	assert.Equal(t, []string{"Project", "Testing"}, formatted.Node.Path)
	assert.Equal(t, 1, formatted.Node.Depth)
	require.NotNil(t, formatted.Parent)
	assert.Equal(t, "root", formatted.Parent.ID)
	require.Len(t, formatted.Children, 2)
	assert.Equal(t, "t1", formatted.Children[0].ID)
	require.Len(t, formatted.Siblings, 1)
	assert.Equal(t, "d", formatted.Siblings[0].ID)
}

func TestFormatDocument(t *testing.T) {
	doc := searchFixture(t)

	formatted := FormatDocument(doc)

	assert.Equal(t, "fixture", formatted.SourceID)
	assert.Equal(t, "Project", formatted.Title)
	assert.Equal(t, 5, formatted.Stats.NodeCount)
	assert.Equal(t, "root", formatted.Root.ID)
	require.Len(t, formatted.Root.Children, 2)
	assert.Equal(t, "Testing", formatted.Root.Children[0].Title)

	// The formatted tree must serialize without cycles.
	encoded, err := json.Marshal(formatted)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"Deployment"`)
}
