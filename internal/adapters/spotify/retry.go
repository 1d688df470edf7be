package spotify

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ewilliams-labs/moodlist/internal/logging"
)

// shouldRetry retries 429 for every method. Transport errors and 5xx are
// retried only for GET, since a failed POST may already have been applied.
// Caller cancellation is final.
func shouldRetry(resp *resty.Response, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	idempotent := resp != nil && resp.Request != nil && resp.Request.Method == http.MethodGet
	if err != nil {
		return idempotent
	}
	if resp == nil {
		return false
	}
	status := resp.StatusCode()
	if status == http.StatusTooManyRequests {
		return true
	}
	return idempotent && status >= http.StatusInternalServerError
}

// retryAfter honours the Retry-After header. A zero duration lets resty fall
// back to its exponential backoff.
func retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	if resp == nil {
		return 0, nil
	}
	return parseRetryAfter(resp.RawResponse), nil
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		until := time.Until(when)
		if until > 0 {
			return until
		}
	}

	return 0
}

func logRetry(resp *resty.Response, err error) {
	ev := logging.Warn().Str("component", "spotify")
	if resp != nil && resp.Request != nil {
		ev = ev.Int("attempt", resp.Request.Attempt).Int("status", resp.StatusCode()).Str("url", resp.Request.URL)
	}
	ev.Err(err).Msg("retrying spotify request")
}
