// Package mindmup implements parsing and searching of MindMup mind-map
// documents.
//
// A MindMup file is a JSON document with a single root topic and nested
// sub-topics stored under rank-keyed "ideas" objects. This package converts
// such a document into a typed node tree, searches trees with predicate
// criteria, and formats matches into stable response shapes for the MCP
// boundary.
//
// The package is self-contained: it never performs I/O. Raw bytes come from
// the Drive client (or a local file), and the resulting Document is immutable
// and request-scoped. Nesting depth and document size limits are enforced
// during the build so that adversarial input cannot exhaust the stack.
//
// Example usage:
//
//	builder := mindmup.NewBuilder(mindmup.BuilderOptions{MaxDepth: 100})
//	doc, err := builder.Build(raw, fileID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	matches := mindmup.SearchDocuments([]*mindmup.Document{doc}, mindmup.Criteria{
//	    TitleContains: "test case",
//	})
package mindmup
