package google

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
)

// ReadOnlyScopes are the Drive scopes this server requests. The server never
// writes to Drive, so nothing beyond read access is ever requested.
var ReadOnlyScopes = []string{
	drive.DriveReadonlyScope,
	drive.DriveMetadataReadonlyScope,
}

// HasCredentials reports whether a credentials file exists at the given path.
func HasCredentials(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// TokenSource loads the service account key at path and returns an OAuth2
// token source scoped for read-only Drive access.
func TokenSource(ctx context.Context, path string) (oauth2.TokenSource, error) {
	if path == "" {
		return nil, fmt.Errorf("no credentials file configured: %s", AuthenticationErrorMessage())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	creds, err := googleauth.CredentialsFromJSON(ctx, data, ReadOnlyScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return creds.TokenSource, nil
}

// HTTPClient returns an HTTP client that authenticates requests with the
// service account key at path.
func HTTPClient(ctx context.Context, path string) (*http.Client, error) {
	ts, err := TokenSource(ctx, path)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

// AuthenticationErrorMessage returns guidance for operators when no usable
// credentials are found.
func AuthenticationErrorMessage() string {
	return "set GOOGLE_DRIVE_CREDENTIALS_FILE to the path of a Google service " +
		"account JSON key, or place the key at " +
		"deployment/credentials/google_service_account.json. The service " +
		"account needs read access to the Drive files it should serve."
}
