package mindmup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestDoc parses raw and fails the test on error.
func buildTestDoc(t *testing.T, sourceID, raw string) *Document {
	t.Helper()
	doc, err := NewBuilder(BuilderOptions{}).Build([]byte(raw), sourceID)
	require.NoError(t, err)
	return doc
}

func searchFixture(t *testing.T) *Document {
	t.Helper()
	return buildTestDoc(t, "fixture", `{
		"title": "Project",
		"id": "root",
		"ideas": {
			"1": {
				"title": "Testing",
				"id": "t",
				"attr": {"status": "done"},
				"ideas": {
					"1": {"title": "Unit test case", "id": "t1"},
					"2": {"title": "Integration", "id": "t2", "attr": {"status": "open"}}
				}
			},
			"2": {"title": "Deployment", "id": "d"}
		}
	}`)
}

func TestSearchDocuments_TitleContains(t *testing.T) {
	doc := searchFixture(t)

	results := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "test"})

	require.Len(t, results, 2)
	assert.Equal(t, "t", results[0].Node.ID)
	assert.Equal(t, "t1", results[1].Node.ID)
}

func TestSearchDocuments_CaseSensitive(t *testing.T) {
	doc := searchFixture(t)

	insensitive := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "TESTING"})
	require.Len(t, insensitive, 1)

	sensitive := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "TESTING", CaseSensitive: true})
	assert.Empty(t, sensitive)
}

func TestSearchDocuments_PreOrder(t *testing.T) {
	doc := searchFixture(t)

	// An empty-criteria search matches every node; the order must be
	// pre-order depth-first, which is the reading order of the map.
	results := SearchDocuments([]*Document{doc}, Criteria{})

	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Node.ID)
	}
	assert.Equal(t, []string{"root", "t", "t1", "t2", "d"}, ids)
}

func TestSearchDocuments_AttributeMatch(t *testing.T) {
	doc := searchFixture(t)

	results := SearchDocuments([]*Document{doc}, Criteria{
		AttributeKey:   "status",
		AttributeValue: "done",
	})

	require.Len(t, results, 1)
	assert.Equal(t, "t", results[0].Node.ID)
}

func TestSearchDocuments_CriteriaAreConjunctive(t *testing.T) {
	doc := searchFixture(t)

	// "Integration" carries status=open; "Testing" carries status=done.
	// Both criteria together must match neither unless both hold.
	results := SearchDocuments([]*Document{doc}, Criteria{
		TitleContains:  "test",
		AttributeKey:   "status",
		AttributeValue: "open",
	})
	assert.Empty(t, results)

	results = SearchDocuments([]*Document{doc}, Criteria{
		TitleContains:  "test",
		AttributeKey:   "status",
		AttributeValue: "done",
	})
	require.Len(t, results, 1)
	assert.Equal(t, "t", results[0].Node.ID)
}

func TestSearchDocuments_NonScalarAttributeValue(t *testing.T) {
	// MindMup stores nested values under attr (positions, style maps).
	// Matching against them must go through deep equality, not ==, which
	// panics on slices and maps.
	doc := buildTestDoc(t, "fixture", `{
		"title": "Layout",
		"id": "root",
		"ideas": {
			"1": {"title": "Pinned", "id": "p", "attr": {"position": [100, -50, 1]}}
		}
	}`)

	results := SearchDocuments([]*Document{doc}, Criteria{
		AttributeKey:   "position",
		AttributeValue: []any{100.0, -50.0, 1.0},
	})
	require.Len(t, results, 1)
	assert.Equal(t, "p", results[0].Node.ID)

	// A different slice, and a scalar probe against the slice value, are
	// plain non-matches.
	assert.Empty(t, SearchDocuments([]*Document{doc}, Criteria{
		AttributeKey:   "position",
		AttributeValue: []any{0.0, 0.0, 1.0},
	}))
	assert.Empty(t, SearchDocuments([]*Document{doc}, Criteria{
		AttributeKey:   "position",
		AttributeValue: "100,-50,1",
	}))
}

func TestSearchDocuments_AttributeKeyPresence(t *testing.T) {
	doc := searchFixture(t)

	// Key without a value matches every node carrying the key.
	results := SearchDocuments([]*Document{doc}, Criteria{AttributeKey: "status"})

	require.Len(t, results, 2)
	assert.Equal(t, "t", results[0].Node.ID)
	assert.Equal(t, "t2", results[1].Node.ID)
}

func TestSearchDocuments_MaxDepth(t *testing.T) {
	doc := searchFixture(t)

	results := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "test", MaxDepth: 1})

	require.Len(t, results, 1)
	assert.Equal(t, "t", results[0].Node.ID)
}

func TestSearchDocuments_PathFromRoot(t *testing.T) {
	doc := searchFixture(t)

	results := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "Integration"})

	require.Len(t, results, 1)
	assert.Equal(t, []string{"Project", "Testing", "Integration"}, results[0].PathFromRoot)
	assert.Equal(t, "fixture", results[0].SourceID)
}

func TestSearchDocuments_MultipleDocuments(t *testing.T) {
	docA := searchFixture(t)
	docB := buildTestDoc(t, "other", `{"title": "Testing elsewhere", "id": "x"}`)

	results := SearchDocuments([]*Document{docA, docB}, Criteria{TitleContains: "testing"})

	require.Len(t, results, 2)
	assert.Equal(t, "fixture", results[0].SourceID)
	assert.Equal(t, "other", results[1].SourceID)
}

func TestSearchDocuments_NoMatches(t *testing.T) {
	doc := searchFixture(t)

	results := SearchDocuments([]*Document{doc}, Criteria{TitleContains: "nonexistent"})

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCriteria_IsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{FolderScope: "folder"}.IsEmpty())
	assert.False(t, Criteria{TitleContains: "x"}.IsEmpty())
	assert.False(t, Criteria{AttributeKey: "k"}.IsEmpty())
	assert.False(t, Criteria{MaxDepth: 2}.IsEmpty())
}

func TestFindNodeContext(t *testing.T) {
	doc := searchFixture(t)

	ctx := FindNodeContext(doc, "t1", true)
	require.NotNil(t, ctx)
	assert.Equal(t, "Unit test case", ctx.Node.Title)
	require.NotNil(t, ctx.Parent)
	assert.Equal(t, "t", ctx.Parent.ID)
	require.Len(t, ctx.Siblings, 1)
	assert.Equal(t, "t2", ctx.Siblings[0].ID)
}

func TestFindNodeContext_WithoutSiblings(t *testing.T) {
	doc := searchFixture(t)

	ctx := FindNodeContext(doc, "t1", false)
	require.NotNil(t, ctx)
	assert.Empty(t, ctx.Siblings)
}

func TestFindNodeContext_Root(t *testing.T) {
	doc := searchFixture(t)

	ctx := FindNodeContext(doc, "root", true)
	require.NotNil(t, ctx)
	assert.Nil(t, ctx.Parent)
	assert.Empty(t, ctx.Siblings)
}

func TestFindNodeContext_Missing(t *testing.T) {
	doc := searchFixture(t)
	assert.Nil(t, FindNodeContext(doc, "nope", true))
}
