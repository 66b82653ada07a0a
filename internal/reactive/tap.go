package reactive

import (
	"context"

	"github.com/cilium/stream"
)

// DoOnEach calls fn for every signal of src, the terminal one included,
// before passing it on.
func DoOnEach[T any](src stream.Observable[T], fn func(Signal[T])) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			src.Observe(
				ctx,
				func(v T) {
					fn(NextSignal(v))
					next(v)
				},
				func(err error) {
					if err != nil {
						fn(ErrorSignal[T](err))
					} else {
						fn(CompleteSignal[T]())
					}
					complete(err)
				})
		})
}
