package reactive

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/cilium/stream"
)

// Retry resubscribes to src with exponential backoff when it fails. Values
// emitted before a failure are not withdrawn, so a retried source may repeat
// them. Once ctx is done the last failure is reported without retrying.
func Retry[T any](src stream.Observable[T], opts ...RetryOption) stream.Observable[T] {
	cfg := retryConfig{
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
	}.apply(opts)

	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = cfg.initialInterval
			bo.MaxElapsedTime = 0

			var policy backoff.BackOff = bo
			if cfg.maxRetries >= 0 {
				policy = backoff.WithMaxRetries(policy, uint64(cfg.maxRetries))
			}
			policy = backoff.WithContext(policy, ctx)

			stream.Retry(src, func(error) bool {
				d := policy.NextBackOff()
				if d == backoff.Stop {
					return false
				}
				return sleep(ctx, d) == nil
			}).Observe(ctx, next, complete)
		})
}
