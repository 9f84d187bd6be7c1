package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []string
		wantErr bool
	}{
		{
			name:  "single string",
			input: "file-1",
			want:  []string{"file-1"},
		},
		{
			name:  "array of strings",
			input: []interface{}{"file-1", "file-2"},
			want:  []string{"file-1", "file-2"},
		},
		{
			name:    "nil input",
			input:   nil,
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "empty array",
			input:   []interface{}{},
			wantErr: true,
		},
		{
			name:    "array with non-string",
			input:   []interface{}{"file-1", 42},
			wantErr: true,
		},
		{
			name:    "array with empty string",
			input:   []interface{}{"file-1", ""},
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "fileId")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestProcessBatch_PartialFailure(t *testing.T) {
	results := ProcessBatch([]string{"a", "b", "c"}, func(id string) (string, error) {
		if id == "b" {
			return "", errors.New("download failed")
		}
		return "content of " + id, nil
	})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Status != "success" || results[0].Result != "content of a" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Status != "error" || results[1].Error != "download failed" {
		t.Errorf("results[1] = %+v", results[1])
	}
	if results[2].Status != "success" {
		t.Errorf("results[2] = %+v", results[2])
	}
}

func TestProcessBatchContext_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	processed := 0
	results := ProcessBatchContext(ctx, []string{"a", "b", "c", "d"}, func(_ context.Context, id string) (string, error) {
		processed++
		if id == "b" {
			cancel()
		}
		return "ok", nil
	})

	if processed != 2 {
		t.Errorf("processed %d items, want 2", processed)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4 (unreached items reported)", len(results))
	}
	for _, r := range results[2:] {
		if r.Status != "error" {
			t.Errorf("unreached item %s reported as %s", r.ID, r.Status)
		}
	}
}

func TestProcessBatchContext_CompletesWithoutCancellation(t *testing.T) {
	results := ProcessBatchContext(context.Background(), []string{"a", "b"}, func(_ context.Context, id string) (string, error) {
		return id, nil
	})

	for _, r := range results {
		if r.Status != "success" {
			t.Errorf("item %s reported as %s", r.ID, r.Status)
		}
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		NewSuccessResult("a", "fetched"),
		NewErrorResult("b", fmt.Errorf("not found")),
	}

	formatted := FormatResults(results)

	var br BatchResult
	if err := json.Unmarshal([]byte(formatted), &br); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if br.Total != 2 {
		t.Errorf("Total = %d, want 2", br.Total)
	}
	if br.Successful != 1 {
		t.Errorf("Successful = %d, want 1", br.Successful)
	}
	if br.Failed != 1 {
		t.Errorf("Failed = %d, want 1", br.Failed)
	}
	if len(br.Results) != 2 {
		t.Errorf("Results len = %d, want 2", len(br.Results))
	}
}
