package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Read-only scopes for journal access.
const (
	ScopeDocsReadOnly          = "https://www.googleapis.com/auth/documents.readonly"
	ScopeDriveMetadataReadOnly = "https://www.googleapis.com/auth/drive.metadata.readonly"
)

// Scopes are requested for every credential type.
var Scopes = []string{ScopeDocsReadOnly, ScopeDriveMetadataReadOnly}

// Credentials selects how to authenticate. JSON wins over Path; with
// neither, application default credentials are used.
type Credentials struct {
	// JSON is an inline service account key.
	JSON string

	// Path is a service account key file.
	Path string
}

// NewTokenSource resolves credentials to an oauth2.TokenSource.
func NewTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	data := []byte(creds.JSON)
	if len(data) == 0 && creds.Path != "" {
		var err error
		data, err = os.ReadFile(creds.Path)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
	}

	if len(data) == 0 {
		ts, err := google.DefaultTokenSource(ctx, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("application default credentials: %w", err)
		}
		return ts, nil
	}

	cfg, err := google.JWTConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return cfg.TokenSource(ctx), nil
}
