package reactive

import (
	"context"
	"sync"

	"github.com/cilium/stream"
)

// Merge observes all sources at once and emits values in arrival order. The
// first failure cancels the remaining sources.
func Merge[T any](srcs ...stream.Observable[T]) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			if len(srcs) == 0 {
				go complete(ctx.Err())
				return
			}
			ctx, cancel := context.WithCancel(ctx)
			var (
				mu        sync.Mutex
				remaining = len(srcs)
				failure   error
			)
			for _, src := range srcs {
				src.Observe(
					ctx,
					func(v T) {
						mu.Lock()
						defer mu.Unlock()
						if failure == nil {
							next(v)
						}
					},
					func(err error) {
						mu.Lock()
						if err != nil && failure == nil {
							failure = err
							cancel()
						}
						remaining--
						last := remaining == 0
						mu.Unlock()
						if last {
							cancel()
							complete(failure)
						}
					})
			}
		})
}

// Zip pairs values by position. For every pair it waits for a value of a
// first and then for one of b. Whichever source ends while Zip is waiting on
// it decides the outcome: a clean end completes the result, a failure fails
// it. Signals the other source produces afterwards are discarded.
func Zip[A, B, R any](a stream.Observable[A], b stream.Observable[B], combine func(A, B) R) stream.Observable[R] {
	return stream.FuncObservable[R](
		func(ctx context.Context, next func(R), complete func(error)) {
			ctx, cancel := context.WithCancel(ctx)
			aErrs, bErrs := make(chan error, 1), make(chan error, 1)
			as := stream.ToChannel(ctx, a, stream.WithErrorChan(aErrs))
			bs := stream.ToChannel(ctx, b, stream.WithErrorChan(bErrs))

			go func() {
				var err error
				for {
					va, ok := <-as
					if !ok {
						err = <-aErrs
						break
					}
					vb, ok := <-bs
					if !ok {
						err = <-bErrs
						break
					}
					next(combine(va, vb))
				}
				cancel()
				drain(as)
				drain(bs)
				complete(err)
			}()
		})
}

// CombineLatest emits combine(latestA, latestB) on every update once both
// sources have produced a value. It completes when both sources have
// completed, or immediately when a source completes without a value.
func CombineLatest[A, B, R any](a stream.Observable[A], b stream.Observable[B], combine func(A, B) R) stream.Observable[R] {
	return stream.FuncObservable[R](
		func(ctx context.Context, next func(R), complete func(error)) {
			ctx, cancel := context.WithCancel(ctx)
			aErrs, bErrs := make(chan error, 1), make(chan error, 1)
			as := stream.ToChannel(ctx, a, stream.WithErrorChan(aErrs))
			bs := stream.ToChannel(ctx, b, stream.WithErrorChan(bErrs))

			go func() {
				var (
					latestA    A
					latestB    B
					hasA, hasB bool
					err        error
				)
				ach, bch := as, bs
			loop:
				for ach != nil || bch != nil {
					select {
					case v, ok := <-ach:
						if !ok {
							ach = nil
							if err = <-aErrs; err != nil || !hasA {
								break loop
							}
							continue
						}
						latestA, hasA = v, true
					case v, ok := <-bch:
						if !ok {
							bch = nil
							if err = <-bErrs; err != nil || !hasB {
								break loop
							}
							continue
						}
						latestB, hasB = v, true
					}
					if hasA && hasB {
						next(combine(latestA, latestB))
					}
				}
				cancel()
				drain(as)
				drain(bs)
				complete(err)
			}()
		})
}

// Race mirrors whichever source signals first, whether with a value, a
// completion or a failure. The other sources are cancelled.
func Race[T any](srcs ...stream.Observable[T]) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T), complete func(error)) {
			if len(srcs) == 0 {
				go complete(ctx.Err())
				return
			}

			ctxs := make([]context.Context, len(srcs))
			cancels := make([]context.CancelFunc, len(srcs))
			for i := range srcs {
				ctxs[i], cancels[i] = context.WithCancel(ctx)
			}

			var (
				mu        sync.Mutex
				winner    = -1
				remaining = len(srcs)
				result    error
			)
			claim := func(i int) bool {
				mu.Lock()
				defer mu.Unlock()
				if winner < 0 {
					winner = i
					for j, c := range cancels {
						if j != i {
							c()
						}
					}
				}
				return winner == i
			}

			for i, src := range srcs {
				src.Observe(
					ctxs[i],
					func(v T) {
						if claim(i) {
							next(v)
						}
					},
					func(err error) {
						won := claim(i)
						mu.Lock()
						if won {
							result = err
						}
						remaining--
						last := remaining == 0
						mu.Unlock()
						if last {
							for _, c := range cancels {
								c()
							}
							complete(result)
						}
					})
			}
		})
}

// drain unblocks a stream.ToChannel producer until it closes the channel.
func drain[T any](ch <-chan T) {
	for range ch {
	}
}
