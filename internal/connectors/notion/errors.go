package notion

import (
	"errors"
	"net/http"

	"github.com/jomei/notionapi"
)

// Notion API errors.
var (
	// ErrNoToken indicates the integration token is not configured.
	ErrNoToken = errors.New("notion: integration token not configured")

	// ErrUnauthorized indicates an invalid or revoked token.
	ErrUnauthorized = errors.New("notion: unauthorised (invalid integration token)")

	// ErrForbidden indicates the resource is not shared with the integration.
	ErrForbidden = errors.New("notion: forbidden (not shared with the integration)")

	// ErrNotFound indicates a missing or unshared resource.
	ErrNotFound = errors.New("notion: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("notion: rate limit exceeded")
)

// wrapError maps Notion API errors to the package sentinels.
// Other errors are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}
