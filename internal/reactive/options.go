package reactive

import "time"

const (
	defaultMaxRetries      = 3
	defaultInitialInterval = 100 * time.Millisecond
)

// RetryOption configures Retry.
type RetryOption func(*retryConfig)

type retryConfig struct {
	maxRetries      int
	initialInterval time.Duration
}

func (c retryConfig) apply(opts []RetryOption) retryConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMaxRetries sets how many times Retry resubscribes after a failure.
// A negative value retries until the context is done.
func WithMaxRetries(n int) RetryOption {
	return func(c *retryConfig) {
		c.maxRetries = n
	}
}

// WithInitialInterval sets the first backoff delay.
func WithInitialInterval(d time.Duration) RetryOption {
	return func(c *retryConfig) {
		c.initialInterval = d
	}
}
