package mindmup

import "fmt"

// ParseError reports input that is not valid JSON. It is non-recoverable for
// the affected document; other documents in a batch continue.
type ParseError struct {
	// Offset is the byte offset where decoding failed, or -1 when unknown.
	Offset int64

	// Err is the underlying decoder error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid mindmup document at byte %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid mindmup document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DepthExceededError reports nesting beyond the configured limit. It is a
// local-document failure, not fatal to a batch.
type DepthExceededError struct {
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("mindmup document exceeds maximum nesting depth of %d", e.Limit)
}

// SizeExceededError reports a document larger than the configured maximum.
type SizeExceededError struct {
	Size  int64
	Limit int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("mindmup document is %d bytes, exceeding the %d byte limit", e.Size, e.Limit)
}
