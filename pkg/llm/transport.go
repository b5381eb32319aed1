package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// StatusError is returned for non-2xx responses from HTTP backends.
type StatusError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: status %d, body: %s", e.Backend, e.StatusCode, e.Body)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// DoWithRetry sends the request built by newReq and returns the response body.
// Network failures, 429 and 5xx responses are retried with exponential backoff;
// any other non-2xx status is returned immediately as *StatusError.
func DoWithRetry(
	ctx context.Context,
	client *http.Client,
	backend string,
	maxRetries uint64,
	newReq func(ctx context.Context) (*http.Request, error),
) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := newReq(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%s request failed: %w", backend, err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{Backend: backend, StatusCode: resp.StatusCode, Body: string(b)}
			if retryable(resp.StatusCode) {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = b
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 8 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(expo, maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}
