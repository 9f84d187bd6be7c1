package instrumentation

import (
	"testing"
)

func TestSizeBucket(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"zero", 0, "le_1024"},
		{"small document", 512, "le_1024"},
		{"exact boundary", 1024, "le_1024"},
		{"just past boundary", 1025, "le_16384"},
		{"medium document", 100 << 10, "le_131072"},
		{"large document", 5 << 20, "le_10485760"},
		{"oversized document", 20 << 20, "gt_10485760"},
		{"negative is unknown", -1, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SizeBucket(tt.bytes); got != tt.expected {
				t.Errorf("SizeBucket(%d) = %q, want %q", tt.bytes, got, tt.expected)
			}
		})
	}
}

func TestAnonymizeSourceID(t *testing.T) {
	id := AnonymizeSourceID("1AbCdEfGhIjKlMnOp")

	if len(id) != 8 {
		t.Errorf("expected 8 hex chars, got %q", id)
	}
	if id == "1AbCdEfG" {
		t.Error("anonymized id must not be a prefix of the input")
	}

	// Stable across calls so log lines correlate.
	if again := AnonymizeSourceID("1AbCdEfGhIjKlMnOp"); again != id {
		t.Errorf("expected stable output, got %q then %q", id, again)
	}

	// Distinct inputs produce distinct identifiers.
	if other := AnonymizeSourceID("completely-different"); other == id {
		t.Errorf("distinct inputs produced identical id %q", id)
	}
}

func TestAnonymizeSourceID_Empty(t *testing.T) {
	if got := AnonymizeSourceID(""); got != "unknown" {
		t.Errorf("AnonymizeSourceID(\"\") = %q, want \"unknown\"", got)
	}
}
