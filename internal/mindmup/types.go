package mindmup

// Node represents one topic in a mind map.
type Node struct {
	// ID is the node identifier from the source document. When the source
	// omits the id, or reuses one already seen in the same document, a
	// synthesized ordinal id is assigned instead (see Builder).
	ID string `json:"id"`

	// Title is the topic text. May be empty.
	Title string `json:"title"`

	// Attributes holds free-form node metadata: the contents of the MindMup
	// "attr" object plus any unrecognized keys preserved verbatim.
	Attributes map[string]any `json:"attributes,omitempty"`

	// Children are the sub-topics in document order.
	Children []*Node `json:"children"`

	// parent is a back-reference for traversal only. It is never serialized
	// and ownership always flows top-down from the root.
	parent *Node
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Walk visits the subtree rooted at n in pre-order. The visitor receives the
// node and its depth relative to n (n itself is depth 0). Returning false
// stops the walk.
func (n *Node) Walk(visit func(node *Node, depth int) bool) {
	n.walk(0, visit)
}

func (n *Node) walk(depth int, visit func(node *Node, depth int) bool) bool {
	if !visit(n, depth) {
		return false
	}
	for _, child := range n.Children {
		if !child.walk(depth+1, visit) {
			return false
		}
	}
	return true
}

// Find returns the first node in pre-order whose ID equals id, or nil.
// IDs are only best-effort unique; callers that need all occurrences
// should use Walk.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Depth returns the maximum depth of the subtree rooted at n, counting n
// itself as one level.
func (n *Node) Depth() int {
	max := 0
	for _, child := range n.Children {
		if d := child.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Metadata holds document-level properties extracted during the build.
type Metadata struct {
	// Title is the map title, or "An untitled mindmap" when absent.
	Title string `json:"title"`

	// FormatVersion is the MindMup schema version ("1.0" when absent).
	FormatVersion string `json:"formatVersion"`

	// ModifiedTime is the RFC 3339 modification time of the backing file,
	// when the storage layer knows it. Empty for documents parsed from raw
	// bytes.
	ModifiedTime string `json:"modifiedTime,omitempty"`
}

// Document represents one parsed MindMup file. A Document always has exactly
// one root and is never mutated after construction.
type Document struct {
	// Root is the root topic, owned exclusively by the Document.
	Root *Node `json:"root"`

	// SourceID is the opaque external file identifier (e.g. a Drive file id).
	SourceID string `json:"sourceId"`

	// Metadata holds the document-level properties.
	Metadata Metadata `json:"metadata"`
}

// NodeCount returns the total number of nodes in the document.
func (d *Document) NodeCount() int {
	count := 0
	d.Root.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// MaxDepth returns the depth of the deepest node.
func (d *Document) MaxDepth() int {
	return d.Root.Depth()
}

// AllText returns every node title in pre-order.
func (d *Document) AllText() []string {
	texts := make([]string, 0, d.NodeCount())
	d.Root.Walk(func(node *Node, _ int) bool {
		texts = append(texts, node.Title)
		return true
	})
	return texts
}

// FindNode returns the first node with the given id, or nil.
func (d *Document) FindNode(id string) *Node {
	return d.Root.Find(id)
}

// Stats summarizes a document for tool responses.
type Stats struct {
	NodeCount       int `json:"nodeCount"`
	MaxDepth        int `json:"maxDepth"`
	TotalTextLength int `json:"totalTextLength"`
}

// ComputeStats walks the document once and returns its statistics.
func (d *Document) ComputeStats() Stats {
	stats := Stats{}
	depth := 0
	d.Root.Walk(func(node *Node, nodeDepth int) bool {
		stats.NodeCount++
		stats.TotalTextLength += len(node.Title)
		if nodeDepth > depth {
			depth = nodeDepth
		}
		return true
	})
	stats.MaxDepth = depth + 1
	return stats
}
