package mindmup

import (
	"reflect"
	"strings"
)

// Criteria is the predicate configuration for a search. Unset criteria are
// not evaluated; a node matches when it satisfies every specified criterion.
type Criteria struct {
	// TitleContains matches nodes whose title contains this substring.
	// Matching is case-insensitive unless CaseSensitive is set.
	TitleContains string

	// AttributeKey and AttributeValue match nodes carrying this exact
	// attribute pair. Only evaluated when AttributeKey is non-empty; a nil
	// AttributeValue matches any value under the key.
	AttributeKey   string
	AttributeValue any

	// MaxDepth limits matches to nodes at most this deep, where the root
	// is depth 0. Zero or negative means unbounded, so a root-only search
	// cannot be expressed through MaxDepth.
	MaxDepth int

	// CaseSensitive switches TitleContains to exact-case matching.
	CaseSensitive bool

	// FolderScope narrows which Drive folder the documents are discovered
	// in. It is passed through to the Drive client untouched and never
	// evaluated against the tree itself.
	FolderScope string
}

// IsEmpty reports whether no node-level criterion is set. FolderScope does
// not count: it scopes discovery, not matching.
func (c Criteria) IsEmpty() bool {
	return c.TitleContains == "" && c.AttributeKey == "" && c.MaxDepth <= 0
}

// MatchResult locates one matching node. PathFromRoot carries the ancestor
// titles (root first, the node itself last) because node ids are only
// best-effort unique and callers need a locatable reference.
type MatchResult struct {
	SourceID     string
	Node         *Node
	PathFromRoot []string
}

// SearchDocuments walks every document depth-first in pre-order and returns
// the nodes matching the criteria, in document order. No matches yields an
// empty result, never an error. Documents are not mutated; concurrent
// searches over the same documents are safe.
func SearchDocuments(docs []*Document, criteria Criteria) []MatchResult {
	results := []MatchResult{}
	for _, doc := range docs {
		results = append(results, searchDocument(doc, criteria)...)
	}
	return results
}

func searchDocument(doc *Document, criteria Criteria) []MatchResult {
	var results []MatchResult
	var path []string

	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		path = append(path, node.Title)
		if matches(node, depth, criteria) {
			results = append(results, MatchResult{
				SourceID:     doc.SourceID,
				Node:         node,
				PathFromRoot: append([]string(nil), path...),
			})
		}
		for _, child := range node.Children {
			walk(child, depth+1)
		}
		path = path[:len(path)-1]
	}
	walk(doc.Root, 0)

	return results
}

// matches evaluates the conjunction of all specified criteria for one node.
func matches(node *Node, depth int, criteria Criteria) bool {
	if criteria.MaxDepth > 0 && depth > criteria.MaxDepth {
		return false
	}
	if criteria.TitleContains != "" {
		title, needle := node.Title, criteria.TitleContains
		if !criteria.CaseSensitive {
			title = strings.ToLower(title)
			needle = strings.ToLower(needle)
		}
		if !strings.Contains(title, needle) {
			return false
		}
	}
	if criteria.AttributeKey != "" {
		value, ok := node.Attributes[criteria.AttributeKey]
		if !ok || !attributeEquals(value, criteria.AttributeValue) {
			return false
		}
	}
	return true
}

// attributeEquals compares a node attribute against the wanted value. A nil
// want only requires the key to be present. Attribute values come straight
// from decoded JSON and can hold slices and maps, which the == operator
// panics on, so comparison goes through reflect.DeepEqual.
func attributeEquals(got, want any) bool {
	if want == nil {
		return true
	}
	return reflect.DeepEqual(got, want)
}

// NodeContext is the neighborhood of a node: the node itself, its parent,
// its children, and optionally its siblings.
type NodeContext struct {
	Node     *Node
	Parent   *Node
	Siblings []*Node
}

// FindNodeContext locates a node by id and returns it with its surroundings.
// Siblings exclude the node itself and are only collected when requested.
// Returns nil when no node carries the id.
func FindNodeContext(doc *Document, nodeID string, includeSiblings bool) *NodeContext {
	node := doc.FindNode(nodeID)
	if node == nil {
		return nil
	}

	ctx := &NodeContext{
		Node:   node,
		Parent: node.Parent(),
	}
	if includeSiblings && ctx.Parent != nil {
		for _, sibling := range ctx.Parent.Children {
			if sibling != node {
				ctx.Siblings = append(ctx.Siblings, sibling)
			}
		}
	}
	return ctx
}
