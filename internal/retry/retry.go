package retry

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Backoff retries an operation when the upstream signals rate limiting.
// Delays double after each attempt: with the defaults, 1s then 2s then
// the error from the third attempt is returned as-is.
type Backoff struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// New returns a Backoff with the default retry policy
func New() *Backoff {
	return &Backoff{
		MaxAttempts:  3,
		InitialDelay: time.Second,
	}
}

// Do invokes op, retrying on rate-limit errors with exponential backoff.
// Non-rate-limit errors propagate immediately. Context cancellation
// aborts the wait between attempts.
func (b *Backoff) Do(ctx context.Context, op func() (string, error)) (string, error) {
	delay := b.InitialDelay

	var result string
	var err error
	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		result, err = op()
		if err == nil {
			return result, nil
		}

		if !IsRateLimit(err) || attempt == b.MaxAttempts {
			return "", err
		}

		slog.Warn("Rate limited, backing off", "attempt", attempt, "delay", delay, "err", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		delay *= 2
	}

	return "", err
}

// IsRateLimit reports whether err looks like an upstream rate-limit
// rejection, either an HTTP 429 status or a textual indication.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}
