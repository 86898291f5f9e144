package shared

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableHTTPError(t *testing.T) {
	assert.True(t, IsRetryableHTTPError(&HTTPError{StatusCode: http.StatusServiceUnavailable}))
	assert.True(t, IsRetryableHTTPError(&HTTPError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, IsRetryableHTTPError(&HTTPError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsRetryableHTTPError(fmt.Errorf("plain error")))
	assert.False(t, IsRetryableHTTPError(nil))

	wrapped := fmt.Errorf("request failed: %w", &HTTPError{StatusCode: http.StatusBadGateway})
	assert.True(t, IsRetryableHTTPError(wrapped))
}

func TestRetryWithBackoffSucceedsAfterRetry(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(3, time.Millisecond, 5*time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return &HTTPError{StatusCode: http.StatusServiceUnavailable}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(5, time.Millisecond, 5*time.Millisecond, func() error {
		attempts++
		return fmt.Errorf("fatal")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoffExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(3, time.Millisecond, 5*time.Millisecond, func() error {
		attempts++
		return &HTTPError{StatusCode: http.StatusServiceUnavailable}
	})
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}
