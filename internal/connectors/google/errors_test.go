package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		err := fmt.Errorf("call: %w", &googleapi.Error{Code: tt.code, Message: "details"})
		got := Translate(err)
		assert.ErrorIs(t, got, tt.want)
		assert.Contains(t, got.Error(), "details")
	}

	assert.Equal(t, ErrForbidden, Translate(&googleapi.Error{Code: http.StatusForbidden}))

	other := &googleapi.Error{Code: http.StatusInternalServerError}
	assert.Equal(t, error(other), Translate(other))
	plain := errors.New("network")
	assert.Equal(t, plain, Translate(plain))
	assert.NoError(t, Translate(nil))
}

func TestRetryAfter(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "12")

	d, ok := retryAfter(&googleapi.Error{Code: http.StatusTooManyRequests, Header: header})
	assert.True(t, ok)
	assert.Equal(t, 12*time.Second, d)

	d, ok = retryAfter(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.True(t, ok)
	assert.Zero(t, d)

	_, ok = retryAfter(&googleapi.Error{Code: http.StatusForbidden})
	assert.False(t, ok)
}
