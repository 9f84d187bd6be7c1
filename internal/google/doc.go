// Package google loads service account credentials for the Google APIs used
// by this server.
//
// Authentication is deliberately simple: a service account JSON key on disk,
// located via GOOGLE_DRIVE_CREDENTIALS_FILE or a set of default paths, is
// exchanged for an OAuth2 token source with read-only Drive scopes. There is
// no interactive flow and no token cache; the oauth2 library refreshes the
// token from the key as needed.
package google
