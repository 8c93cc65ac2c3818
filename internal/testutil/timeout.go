package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTestBuffer is subtracted from the test deadline so cleanup can run
// before the test binary times out.
const DefaultTestBuffer = 2 * time.Second

// DefaultWatchTimeout bounds tests that wait on file system events.
const DefaultWatchTimeout = 10 * time.Second

// ContextWithTestDeadline creates a context that ends DefaultTestBuffer
// before the test deadline, or after fallback when the test has none.
func ContextWithTestDeadline(t *testing.T, fallback time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	if deadline, ok := t.Deadline(); ok {
		adjusted := deadline.Add(-DefaultTestBuffer)
		if time.Until(adjusted) > 0 && time.Until(adjusted) < fallback {
			return context.WithDeadline(context.Background(), adjusted)
		}
	}
	return context.WithTimeout(context.Background(), fallback)
}

// WatchContext is ContextWithTestDeadline with DefaultWatchTimeout.
func WatchContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return ContextWithTestDeadline(t, DefaultWatchTimeout)
}

// Eventually polls cond every 10ms until it returns true or timeout
// elapses, and reports whether cond succeeded.
func Eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
