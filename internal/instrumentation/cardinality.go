package instrumentation

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with Drive identifiers.

// sizeBucketBoundaries are the upper bounds for document size buckets, in bytes.
var sizeBucketBoundaries = []int64{
	1 << 10,  // 1KiB
	16 << 10, // 16KiB
	128 << 10,
	1 << 20, // 1MiB
	10 << 20,
}

// SizeBucket maps a byte count to a low-cardinality bucket label.
//
// Example:
//
//	SizeBucket(512)       // "le_1024"
//	SizeBucket(2048)      // "le_16384"
//	SizeBucket(20 << 20)  // "gt_10485760"
//	SizeBucket(-1)        // "unknown"
func SizeBucket(bytes int64) string {
	if bytes < 0 {
		return "unknown"
	}
	for _, bound := range sizeBucketBoundaries {
		if bytes <= bound {
			return "le_" + strconv.FormatInt(bound, 10)
		}
	}
	return "gt_" + strconv.FormatInt(sizeBucketBoundaries[len(sizeBucketBoundaries)-1], 10)
}

// AnonymizeSourceID returns a short, stable identifier for a Drive file ID.
// The full ID names a specific document; the truncated hash lets related log
// lines be correlated without recording which document was read.
//
// Example:
//
//	AnonymizeSourceID("1AbC...")  // "f3a81c90"
//	AnonymizeSourceID("")         // "unknown"
func AnonymizeSourceID(sourceID string) string {
	if sourceID == "" {
		return "unknown"
	}
	sum := sha256.Sum256([]byte(sourceID))
	return hex.EncodeToString(sum[:4])
}

// Common operation types for Drive API metrics.
// Status and Service constants are defined in config.go.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationDownload = "download"
	OperationAbout    = "about"
	OperationSearch   = "search"
)
