package mindmup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"

	"github.com/mupstack/mupdrive/internal/logging"
)

const (
	// untitledTitle is used when the source document carries no title,
	// matching the label MindMup itself shows for unnamed maps.
	untitledTitle = "An untitled mindmap"

	// defaultFormatVersion is assumed when the source omits formatVersion.
	defaultFormatVersion = "1.0"
)

// reservedKeys are the node-level keys with dedicated fields on Node.
// Everything else is preserved verbatim into Node.Attributes.
var reservedKeys = map[string]bool{
	"id":    true,
	"title": true,
	"ideas": true,
	"attr":  true,
}

// BuilderOptions configures a Builder. Zero values select the defaults.
type BuilderOptions struct {
	// MaxDepth bounds the nesting depth of accepted documents (default: 100).
	MaxDepth int

	// MaxDocumentBytes bounds the raw document size (default: 10 MiB).
	MaxDocumentBytes int64

	// Logger receives diagnostics about recoverable anomalies.
	Logger *slog.Logger
}

// Builder converts raw MindMup JSON into Documents. A Builder is stateless
// across calls and safe for concurrent use.
type Builder struct {
	maxDepth int
	maxBytes int64
	logger   *slog.Logger
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts BuilderOptions) *Builder {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 100
	}
	if opts.MaxDocumentBytes <= 0 {
		opts.MaxDocumentBytes = 10 * 1024 * 1024
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Builder{
		maxDepth: opts.MaxDepth,
		maxBytes: opts.MaxDocumentBytes,
		logger:   opts.Logger,
	}
}

// buildState tracks per-document id bookkeeping during a single build.
type buildState struct {
	seen    map[string]bool
	ordinal int
}

// nextSyntheticID returns an identifier that is unused within this document.
func (s *buildState) nextSyntheticID() string {
	for {
		s.ordinal++
		id := "~n" + strconv.Itoa(s.ordinal)
		if !s.seen[id] {
			return id
		}
	}
}

// Build parses raw bytes into a Document. sourceID is recorded on the
// Document untouched.
//
// Structurally invalid JSON fails with a *ParseError carrying the offending
// byte offset. Syntactically valid but malformed documents (wrong top-level
// type, missing fields, non-object children) degrade to a best-effort tree
// and never fail. Nesting beyond the configured depth fails with a
// *DepthExceededError before it can cause unbounded recursion.
func (b *Builder) Build(raw []byte, sourceID string) (*Document, error) {
	if int64(len(raw)) > b.maxBytes {
		return nil, &SizeExceededError{Size: int64(len(raw)), Limit: b.maxBytes}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{Offset: syntaxErr.Offset, Err: err}
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Valid JSON, wrong shape. Synthesize an empty root carrying the
			// anomaly so a batch can still report the document.
			b.logger.Warn("mindmup document is not a JSON object, synthesizing empty root",
				logging.SourceID(sourceID),
				slog.String("got", typeErr.Value))
			root := &Node{
				ID:         "root",
				Title:      "",
				Attributes: map[string]any{"error": "document is not a JSON object, got " + typeErr.Value},
				Children:   []*Node{},
			}
			return &Document{
				Root:     root,
				SourceID: sourceID,
				Metadata: Metadata{Title: untitledTitle, FormatVersion: defaultFormatVersion},
			}, nil
		}
		return nil, &ParseError{Offset: -1, Err: err}
	}

	meta := Metadata{
		Title:         untitledTitle,
		FormatVersion: defaultFormatVersion,
	}
	if title, ok := decodeString(top["title"]); ok {
		meta.Title = title
	}
	if version, ok := decodeString(top["formatVersion"]); ok {
		meta.FormatVersion = version
	}

	state := &buildState{seen: make(map[string]bool)}
	root, err := b.buildNode(top, 1, state, sourceID)
	if err != nil {
		return nil, err
	}

	return &Document{
		Root:     root,
		SourceID: sourceID,
		Metadata: meta,
	}, nil
}

// buildNode recursively converts one JSON object into a Node. depth counts
// levels from the root (root is 1) and is checked against the configured
// bound before descending.
func (b *Builder) buildNode(obj map[string]json.RawMessage, depth int, state *buildState, sourceID string) (*Node, error) {
	if depth > b.maxDepth {
		return nil, &DepthExceededError{Limit: b.maxDepth}
	}

	node := &Node{
		Children: []*Node{},
	}

	// Node id: keep the source id if present and unused, otherwise
	// synthesize. A duplicate keeps a pointer back to the colliding id.
	if id, ok := decodeString(obj["id"]); ok && id != "" {
		if state.seen[id] {
			synthetic := state.nextSyntheticID()
			b.logger.Debug("duplicate node id, synthesizing replacement",
				logging.SourceID(sourceID),
				slog.String("id", id),
				slog.String("synthetic_id", synthetic))
			node.ID = synthetic
			node.Attributes = map[string]any{"duplicateOf": id}
		} else {
			node.ID = id
		}
	} else {
		node.ID = state.nextSyntheticID()
	}
	state.seen[node.ID] = true

	if title, ok := decodeString(obj["title"]); ok {
		node.Title = title
	}

	// The "attr" object seeds the attribute map; unrecognized keys are
	// preserved alongside it rather than dropped.
	if rawAttr, ok := obj["attr"]; ok {
		var attr map[string]any
		if err := json.Unmarshal(rawAttr, &attr); err != nil {
			b.logger.Warn("mindmup node has malformed attr object, keeping raw value",
				logging.SourceID(sourceID),
				slog.String("node_id", node.ID))
			var value any
			_ = json.Unmarshal(rawAttr, &value)
			attr = map[string]any{"attr": value}
		}
		if len(attr) > 0 {
			node.Attributes = mergeAttributes(node.Attributes, attr)
		}
	}
	for key, raw := range obj {
		if reservedKeys[key] {
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		node.Attributes = mergeAttributes(node.Attributes, map[string]any{key: value})
	}

	// Children live under "ideas", keyed by numeric rank. Rank order is the
	// visual order of the map, so children are sorted by rank, not map order.
	if rawIdeas, ok := obj["ideas"]; ok {
		var ideas map[string]json.RawMessage
		if err := json.Unmarshal(rawIdeas, &ideas); err != nil {
			b.logger.Warn("mindmup node has malformed ideas collection, skipping children",
				logging.SourceID(sourceID),
				slog.String("node_id", node.ID))
		} else {
			for _, rank := range sortedRanks(ideas) {
				var childObj map[string]json.RawMessage
				if err := json.Unmarshal(ideas[rank], &childObj); err != nil {
					b.logger.Warn("mindmup child entry is not an object, skipping",
						logging.SourceID(sourceID),
						slog.String("node_id", node.ID),
						slog.String("rank", rank))
					continue
				}
				child, err := b.buildNode(childObj, depth+1, state, sourceID)
				if err != nil {
					return nil, err
				}
				child.parent = node
				node.Children = append(node.Children, child)
			}
		}
	}

	return node, nil
}

// BatchInput is one raw document handed to BuildAll.
type BatchInput struct {
	SourceID string
	Raw      []byte
}

// BatchError records a per-document build failure. Failures never abort the
// batch; the remaining documents are still built.
type BatchError struct {
	SourceID string
	Err      error
}

// BuildAll builds every input, collecting successes and failures separately.
func (b *Builder) BuildAll(inputs []BatchInput) ([]*Document, []BatchError) {
	var docs []*Document
	var errs []BatchError
	for _, input := range inputs {
		doc, err := b.Build(input.Raw, input.SourceID)
		if err != nil {
			b.logger.Warn("failed to build mindmup document",
				logging.SourceID(input.SourceID),
				logging.Err(err))
			errs = append(errs, BatchError{SourceID: input.SourceID, Err: err})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

// decodeString decodes a raw JSON value as a string. Numeric values are
// formatted as their shortest decimal representation since MindMup emits
// numeric ids and versions in older schema revisions.
func decodeString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// mergeAttributes merges src into dst, allocating dst on first use.
func mergeAttributes(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

// sortedRanks orders idea keys by numeric rank. MindMup uses negative ranks
// for left-side topics; non-numeric keys sort after numeric ones, lexically.
func sortedRanks(ideas map[string]json.RawMessage) []string {
	ranks := make([]string, 0, len(ideas))
	for rank := range ideas {
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		ri, errI := strconv.ParseFloat(ranks[i], 64)
		rj, errJ := strconv.ParseFloat(ranks[j], 64)
		switch {
		case errI == nil && errJ == nil:
			if ri != rj {
				return ri < rj
			}
			return ranks[i] < ranks[j]
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return ranks[i] < ranks[j]
		}
	})
	return ranks
}
