// Package google provides shared infrastructure for Google API connectors.
//
// It contains:
//   - credential resolution (inline service account JSON, key file, or
//     application default credentials) producing an oauth2.TokenSource
//   - service factories for the Docs and Drive APIs
//   - error mapping for common Google API failures (401, 403, 404, 429)
//   - a quota throttle that pauses after 429 responses
//
// # Scopes
//
// Read-only scopes are requested:
//   - https://www.googleapis.com/auth/documents.readonly
//   - https://www.googleapis.com/auth/drive.metadata.readonly
//
// A service account needs the journal document shared with its address.
package google
