package reactive

import (
	"context"
	"sync/atomic"

	"github.com/cilium/stream"
)

// Take emits at most n values, then cancels src and completes.
func Take[T any](src stream.Observable[T], n int) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			if n <= 0 {
				go complete(nil)
				return
			}
			limit := int64(n)
			subCtx, cancel := context.WithCancel(ctx)
			var taken atomic.Int64
			src.Observe(
				subCtx,
				func(v T) {
					c := taken.Add(1)
					if c > limit {
						return
					}
					next(v)
					if c == limit {
						cancel()
					}
				},
				func(err error) {
					cancel()
					if taken.Load() >= limit {
						err = nil
					}
					complete(err)
				})
		})
}
