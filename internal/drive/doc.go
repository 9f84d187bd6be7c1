// Package drive provides a read-only client for the Google Drive API.
//
// This package covers the operations the server needs to discover and fetch
// mind-map files:
//   - Listing and searching files and folders with Drive query strings
//   - Retrieving file metadata
//   - Downloading file content
//
// Authentication uses a service account key loaded by the google package.
// API failures are mapped onto the package error values ErrNotFound and
// ErrPermissionDenied so callers can react to them without inspecting
// googleapi errors; no retry policy is applied here.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := drive.NewClient(ctx, credentialsFile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	files, _, err := client.ListFiles(ctx, &drive.ListOptions{
//	    Query:      drive.MindmupQuery(""),
//	    MaxResults: 100,
//	})
package drive
