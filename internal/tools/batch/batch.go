package batch

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Result is the outcome of one item in a batch.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult aggregates the outcomes of a whole batch.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray accepts a tool argument that may be a single string
// or an array of strings and normalizes it to a non-empty slice.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return []string{v}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		ids := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			ids = append(ids, str)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// FormatResults renders batch results as an indented JSON summary.
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == statusSuccess {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}

// ProcessBatch runs fn for every id. One item failing never aborts the
// rest of the batch.
func ProcessBatch(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		res, err := fn(id)
		results = append(results, resultOf(id, res, err))
	}
	return results
}

// ProcessBatchContext is like ProcessBatch but stops early when the context
// is cancelled. Items not reached are reported as errors so the caller can
// tell which files were never fetched.
func ProcessBatchContext(ctx context.Context, ids []string, fn func(ctx context.Context, id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			for _, remaining := range ids[i:] {
				results = append(results, NewErrorResult(remaining, err))
			}
			break
		}
		res, err := fn(ctx, id)
		results = append(results, resultOf(id, res, err))
	}
	return results
}

func resultOf(id, res string, err error) Result {
	if err != nil {
		return NewErrorResult(id, err)
	}
	return NewSuccessResult(id, res)
}

// NewSuccessResult creates a success result.
func NewSuccessResult(id, message string) Result {
	return Result{ID: id, Status: statusSuccess, Result: message}
}

// NewErrorResult creates an error result.
func NewErrorResult(id string, err error) Result {
	return Result{ID: id, Status: statusError, Error: err.Error()}
}
