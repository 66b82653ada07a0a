package reactive

import (
	"context"
	"time"

	"github.com/cilium/stream"
)

// DelaySubscription waits d before subscribing to src.
func DelaySubscription[T any](src stream.Observable[T], d time.Duration) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			go func() {
				if err := sleep(ctx, d); err != nil {
					complete(err)
					return
				}
				src.Observe(ctx, next, complete)
			}()
		})
}

// DelayElements waits d before emitting each value, including the first one.
// The wait blocks the goroutine src emits from.
func DelayElements[T any](src stream.Observable[T], d time.Duration) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			var sleepErr error
			src.Observe(
				ctx,
				func(v T) {
					if sleepErr != nil {
						return
					}
					if sleepErr = sleep(ctx, d); sleepErr == nil {
						next(v)
					}
				},
				func(err error) {
					if sleepErr != nil {
						err = sleepErr
					}
					complete(err)
				})
		})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
