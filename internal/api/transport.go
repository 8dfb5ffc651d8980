package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// LoggingTransport logs every request with method, path, status and duration.
type LoggingTransport struct {
	next   http.RoundTripper
	logger zerolog.Logger
}

// NewLoggingTransport wraps next with request logging. A nil next falls back
// to http.DefaultTransport.
func NewLoggingTransport(next http.RoundTripper, logger zerolog.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, logger: logger}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("duration", time.Since(started)).
			Msg("api call")
		return resp, err
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api call")

	return resp, nil
}
