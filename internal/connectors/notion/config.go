package notion

import (
	"net/http"

	"github.com/ephemere-io/pickles/internal/core/domain"
)

const (
	// DefaultPageSize is the page size for search, query and block requests.
	DefaultPageSize = 100

	// DefaultRetries is the number of retries on 429 responses.
	DefaultRetries = 3

	// datePropertyName is preferred when a database has several date
	// properties.
	datePropertyName = "Date"

	// maxBlockDepth bounds how far FetchBody descends into nested blocks.
	maxBlockDepth = 3
)

// Config holds the parsed configuration for a Notion source.
type Config struct {
	// Token is the integration token.
	Token string

	// DatabaseID pins the structured container. Empty means discover.
	DatabaseID string

	// PageSize is the page size requested from the API (1 to 100).
	PageSize int

	// HTTPClient overrides the transport. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.NotionSettings) Config {
	return Config{
		Token:      s.APIKey,
		DatabaseID: s.DatabaseID,
		PageSize:   s.PageSize,
	}
}

func (c Config) pageSize() int {
	if c.PageSize <= 0 || c.PageSize > DefaultPageSize {
		return DefaultPageSize
	}
	return c.PageSize
}
