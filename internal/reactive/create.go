package reactive

import (
	"context"

	"github.com/cilium/stream"
)

// FromCallable invokes fn once per subscription and emits its result, or
// fails with its error.
func FromCallable[T any](fn func() (T, error)) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			go func() {
				if err := ctx.Err(); err != nil {
					complete(err)
					return
				}
				v, err := fn()
				if err == nil {
					next(v)
				}
				complete(err)
			}()
		})
}

// Defer builds a fresh source for every subscription.
func Defer[T any](factory func() stream.Observable[T]) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			factory().Observe(ctx, next, complete)
		})
}
