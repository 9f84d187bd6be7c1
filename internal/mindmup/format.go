package mindmup

import (
	"encoding/json"
	"strings"
)

// FormattedMatch is the flat, stable shape of one match as exposed over the
// tool-calling boundary. It carries no back-references and no cycles.
type FormattedMatch struct {
	SourceID      string         `json:"sourceId"`
	NodeID        string         `json:"nodeId"`
	Title         string         `json:"title"`
	Path          []string       `json:"path"`
	Depth         int            `json:"depth"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	ChildrenCount int            `json:"childrenCount"`
}

// ResponseError is one per-document failure entry in a batch response.
type ResponseError struct {
	SourceID string `json:"sourceId"`
	Error    string `json:"error"`
}

// Response is the serializable result of a search over one or more documents.
// Failed documents are reported alongside the matches from the ones that
// parsed, never instead of them.
type Response struct {
	Matches []FormattedMatch `json:"matches"`
	Total   int              `json:"total"`
	Errors  []ResponseError  `json:"errors,omitempty"`
}

// Format converts match results and batch errors into a Response. The output
// is deterministic: matches keep their document order and map keys serialize
// sorted, so identical input always yields byte-identical JSON.
func Format(results []MatchResult, errs []BatchError) Response {
	matches := make([]FormattedMatch, len(results))
	for i, result := range results {
		matches[i] = FormattedMatch{
			SourceID:      result.SourceID,
			NodeID:        result.Node.ID,
			Title:         result.Node.Title,
			Path:          result.PathFromRoot,
			Depth:         len(result.PathFromRoot) - 1,
			Attributes:    result.Node.Attributes,
			ChildrenCount: len(result.Node.Children),
		}
	}

	response := Response{
		Matches: matches,
		Total:   len(matches),
	}
	for _, batchErr := range errs {
		response.Errors = append(response.Errors, ResponseError{
			SourceID: batchErr.SourceID,
			Error:    batchErr.Err.Error(),
		})
	}
	return response
}

// EncodeResponse serializes a Response as indented JSON.
func EncodeResponse(response Response) ([]byte, error) {
	return json.MarshalIndent(response, "", "  ")
}

// JoinedText returns all node titles joined with single spaces, the form the
// content tools hand to the caller.
func JoinedText(doc *Document) string {
	return strings.Join(doc.AllText(), " ")
}

// TruncateContent enforces the response content limit. It returns the
// (possibly truncated) content, whether it was cut, and the original length
// so callers can report the truncation instead of hiding it.
func TruncateContent(content string, limit int) (string, bool, int) {
	original := len(content)
	if limit <= 0 || original <= limit {
		return content, false, original
	}
	return content[:limit], true, original
}

// Chunk is one fixed-size slice of a document's text content, used to hand
// large maps to the caller piecewise.
type Chunk struct {
	ChunkID       int    `json:"chunkId"`
	StartNode     int    `json:"startNode"`
	EndNode       int    `json:"endNode"`
	NodeCount     int    `json:"nodeCount"`
	Content       string `json:"content"`
	ContentLength int    `json:"contentLength"`
}

// ChunkContent splits the document's pre-order text into chunks of at most
// chunkSize node titles each. A non-positive chunkSize defaults to 50.
func ChunkContent(doc *Document, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = 50
	}

	texts := doc.AllText()
	chunks := []Chunk{}
	for start := 0; start < len(texts); start += chunkSize {
		end := start + chunkSize
		if end > len(texts) {
			end = len(texts)
		}
		content := strings.Join(texts[start:end], " ")
		chunks = append(chunks, Chunk{
			ChunkID:       start / chunkSize,
			StartNode:     start,
			EndNode:       end - 1,
			NodeCount:     end - start,
			Content:       content,
			ContentLength: len(content),
		})
	}
	return chunks
}

// NodeRef is the minimal reference shape used when listing related nodes.
type NodeRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FormattedNodeContext is the serializable neighborhood of one node.
type FormattedNodeContext struct {
	Node     FormattedMatch `json:"node"`
	Parent   *NodeRef       `json:"parent"`
	Children []NodeRef      `json:"children"`
	Siblings []NodeRef      `json:"siblings,omitempty"`
}

// FormatNodeContext flattens a NodeContext for transmission.
func FormatNodeContext(doc *Document, ctx *NodeContext) FormattedNodeContext {
	path := []string{ctx.Node.Title}
	for ancestor := ctx.Node.Parent(); ancestor != nil; ancestor = ancestor.Parent() {
		path = append([]string{ancestor.Title}, path...)
	}

	formatted := FormattedNodeContext{
		Node: FormattedMatch{
			SourceID:      doc.SourceID,
			NodeID:        ctx.Node.ID,
			Title:         ctx.Node.Title,
			Path:          path,
			Depth:         len(path) - 1,
			Attributes:    ctx.Node.Attributes,
			ChildrenCount: len(ctx.Node.Children),
		},
		Children: make([]NodeRef, 0, len(ctx.Node.Children)),
	}
	for _, child := range ctx.Node.Children {
		formatted.Children = append(formatted.Children, NodeRef{ID: child.ID, Title: child.Title})
	}
	if ctx.Parent != nil {
		formatted.Parent = &NodeRef{ID: ctx.Parent.ID, Title: ctx.Parent.Title}
	}
	for _, sibling := range ctx.Siblings {
		formatted.Siblings = append(formatted.Siblings, NodeRef{ID: sibling.ID, Title: sibling.Title})
	}
	return formatted
}

// FormattedNode is the recursive, serializable shape of one tree node.
// Unlike Node it carries no parent pointer, so it marshals without cycles.
type FormattedNode struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Children   []FormattedNode `json:"children"`
}

// FormattedDocument is the full serializable form of a parsed document.
type FormattedDocument struct {
	SourceID      string        `json:"sourceId"`
	Title         string        `json:"title"`
	FormatVersion string        `json:"formatVersion"`
	ModifiedTime  string        `json:"modifiedTime,omitempty"`
	Stats         Stats         `json:"stats"`
	Root          FormattedNode `json:"root"`
}

// FormatDocument flattens a Document for transmission, tree included.
func FormatDocument(doc *Document) FormattedDocument {
	return FormattedDocument{
		SourceID:      doc.SourceID,
		Title:         doc.Metadata.Title,
		FormatVersion: doc.Metadata.FormatVersion,
		ModifiedTime:  doc.Metadata.ModifiedTime,
		Stats:         doc.ComputeStats(),
		Root:          formatNode(doc.Root),
	}
}

func formatNode(node *Node) FormattedNode {
	formatted := FormattedNode{
		ID:         node.ID,
		Title:      node.Title,
		Attributes: node.Attributes,
		Children:   make([]FormattedNode, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		formatted.Children = append(formatted.Children, formatNode(child))
	}
	return formatted
}
