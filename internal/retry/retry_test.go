package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	b := &Backoff{MaxAttempts: 3, InitialDelay: time.Millisecond}

	calls := 0
	result, err := b.Do(context.Background(), func() (string, error) {
		calls++
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected result 'ok', got %q", result)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestDoRetriesOnRateLimit(t *testing.T) {
	b := &Backoff{MaxAttempts: 3, InitialDelay: time.Millisecond}

	calls := 0
	result, err := b.Do(context.Background(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("received non-200 status code: 429 - too many requests")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected result 'ok', got %q", result)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	b := &Backoff{MaxAttempts: 3, InitialDelay: time.Millisecond}

	calls := 0
	rateLimitErr := errors.New("rate limit exceeded")
	_, err := b.Do(context.Background(), func() (string, error) {
		calls++
		return "", rateLimitErr
	})

	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if !errors.Is(err, rateLimitErr) {
		t.Errorf("Expected rate limit error to propagate, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	b := &Backoff{MaxAttempts: 3, InitialDelay: time.Millisecond}

	calls := 0
	_, err := b.Do(context.Background(), func() (string, error) {
		calls++
		return "", errors.New("connection refused")
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call for non-rate-limit error, got %d", calls)
	}
}

func TestDoDelaysIncrease(t *testing.T) {
	b := &Backoff{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond}

	calls := 0
	start := time.Now()
	_, err := b.Do(context.Background(), func() (string, error) {
		calls++
		return "", errors.New("too many requests")
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	// Two waits: 10ms then 20ms
	if elapsed < 30*time.Millisecond {
		t.Errorf("Expected at least 30ms of backoff, got %s", elapsed)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	b := &Backoff{MaxAttempts: 3, InitialDelay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	start := time.Now()
	_, err := b.Do(ctx, func() (string, error) {
		calls++
		return "", errors.New("rate limit exceeded")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if time.Since(start) > time.Second {
		t.Error("Expected cancellation to abort the backoff wait")
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "http 429 status",
			err:      errors.New("received non-200 status code: 429 - slow down"),
			expected: true,
		},
		{
			name:     "textual rate limit",
			err:      errors.New("Rate Limit exceeded for model"),
			expected: true,
		},
		{
			name:     "too many requests",
			err:      errors.New("upstream said Too Many Requests"),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      errors.New("connection refused"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimit(tt.err); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
