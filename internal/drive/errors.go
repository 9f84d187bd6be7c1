package drive

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for the Drive failure modes callers react to. They are
// propagated unchanged through the library and tool layers; retrying is the
// caller's decision, never made here.
var (
	// ErrNotFound indicates the requested file does not exist or is not
	// visible to the service account.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates the service account lacks access to the
	// requested file.
	ErrPermissionDenied = errors.New("permission denied")
)

// mapAPIError translates googleapi errors onto the package sentinels,
// keeping the original error in the chain for diagnostics.
func mapAPIError(err error, fileID string) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s: %v", ErrNotFound, fileID, err)
	case http.StatusForbidden, http.StatusUnauthorized:
		return fmt.Errorf("%w: %s: %v", ErrPermissionDenied, fileID, err)
	}
	return err
}
