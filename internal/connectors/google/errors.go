package google

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"
)

// Errors returned by the Google connectors.
var (
	ErrUnauthorized = errors.New("google: credentials rejected")
	ErrForbidden    = errors.New("google: document not shared with these credentials")
	ErrNotFound     = errors.New("google: document not found")
	ErrRateLimited  = errors.New("google: quota exceeded")
	ErrInvalidURL   = errors.New("google: invalid document URL")
)

var statusErrors = map[int]error{
	http.StatusUnauthorized:    ErrUnauthorized,
	http.StatusForbidden:       ErrForbidden,
	http.StatusNotFound:        ErrNotFound,
	http.StatusTooManyRequests: ErrRateLimited,
}

// Translate maps a googleapi.Error status to one of the errors above,
// keeping the API message. Other errors pass through unchanged.
func Translate(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	sentinel, ok := statusErrors[gerr.Code]
	if !ok {
		return err
	}
	if gerr.Message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, gerr.Message)
}

// retryAfter returns the server-requested delay of a 429 response. ok is
// false for any other error.
func retryAfter(err error) (delay time.Duration, ok bool) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusTooManyRequests {
		return 0, false
	}
	if secs, perr := strconv.Atoi(gerr.Header.Get("Retry-After")); perr == nil && secs > 0 {
		return time.Duration(secs) * time.Second, true
	}
	return 0, true
}
