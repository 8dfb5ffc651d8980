package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// WaitReady probes the hierarchy endpoint with exponential backoff until the
// server answers, or maxElapsed runs out. Any HTTP response counts as ready,
// including 401: reachability is the question here, not authorization. This
// is the only retrying path in the package; regular calls fail fast.
func (c *Client) WaitReady(ctx context.Context, maxElapsed time.Duration) error {
	probe := func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/hierarchy", nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Debug().Err(err).Msg("server not ready")
			return struct{}{}, err
		}
		resp.Body.Close()
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, probe,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxElapsed),
	)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	return nil
}
