package reactive_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cilium/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikhailv/reactive-sandbox/internal/domain"
	"github.com/mikhailv/reactive-sandbox/internal/reactive"
	"github.com/mikhailv/reactive-sandbox/internal/reactive/streamtest"
)

var (
	person1 = domain.NewPersonBuilder().Name("Markus").LastName("Turica").Age(21).Build()
	person2 = domain.NewPersonBuilder().Name("Peter").LastName("Minator").Age(33).Build()

	errBoom = errors.New("boom")
)

const unit = 30 * time.Millisecond

func just[T any](vs ...T) stream.Observable[T] {
	return stream.FromSlice(vs)
}

// endless emits 0, 1, 2, ... until ctx is done and counts what it emitted.
func endless(emitted *atomic.Int32) stream.Observable[int] {
	return stream.FuncObservable[int](
		func(ctx context.Context, next func(int), complete func(error)) {
			go func() {
				for i := 0; ctx.Err() == nil; i++ {
					emitted.Add(1)
					next(i)
				}
				complete(ctx.Err())
			}()
		})
}

func TestFlatMap_KeepsSourceOrder(t *testing.T) {
	o := stream.FlatMap(just(person1, person2), func(p domain.Person) stream.Observable[string] {
		return stream.Just(p.Name())
	})

	for range 50 {
		streamtest.Create(o).
			ExpectNext(person1.Name(), person2.Name()).
			ExpectComplete().
			Verify(t)
	}
}

func TestFlatMap_DelayedInnersKeepOrder(t *testing.T) {
	o := stream.FlatMap(just(person1, person2), func(p domain.Person) stream.Observable[string] {
		return reactive.DelayElements(just(p.Name(), p.LastName()), time.Millisecond)
	})

	streamtest.Create(o).
		ExpectNext("Markus", "Turica", "Peter", "Minator").
		ExpectComplete().
		Verify(t)
}

func TestFromCallable_Deferred(t *testing.T) {
	var calls atomic.Int32
	o := reactive.FromCallable(func() (domain.Person, error) {
		calls.Add(1)
		return person1, nil
	})
	assert.Zero(t, calls.Load(), "callable invoked before subscription")

	streamtest.Create(o).
		ExpectNext(person1).
		ExpectComplete().
		Verify(t)
	streamtest.Create(o).
		ExpectNext(person1).
		ExpectComplete().
		Verify(t)
	assert.EqualValues(t, 2, calls.Load())
}

func TestFromCallable_Error(t *testing.T) {
	o := reactive.FromCallable(func() (string, error) { return "", errBoom })

	streamtest.Create(o).
		ExpectErrorIs(errBoom).
		Verify(t)
}

func TestDefer(t *testing.T) {
	var builds atomic.Int32
	o := reactive.Defer(func() stream.Observable[int32] {
		return stream.Just(builds.Add(1))
	})

	streamtest.Create(o).ExpectNext(1).ExpectComplete().Verify(t)
	streamtest.Create(o).ExpectNext(2).ExpectComplete().Verify(t)
}

func TestTake(t *testing.T) {
	o := reactive.Take(stream.Filter(stream.Range(0, 100), func(i int) bool { return i%2 == 0 }), 3)

	streamtest.Create(o).
		ExpectNext(0, 2, 4).
		ExpectComplete().
		Verify(t)
}

func TestTake_CancelsSource(t *testing.T) {
	var emitted atomic.Int32

	streamtest.Create(reactive.Take(endless(&emitted), 2)).
		ExpectNext(0, 1).
		ExpectComplete().
		WithTimeout(time.Second).
		Verify(t)
	assert.Less(t, emitted.Load(), int32(10))
}

func TestTake_Zero(t *testing.T) {
	streamtest.Create(reactive.Take(stream.Error[int](errBoom), 0)).
		ExpectComplete().
		Verify(t)
}

func TestTake_ShortSourceError(t *testing.T) {
	o := reactive.Take(stream.Concat(stream.Just(1), stream.Error[int](errBoom)), 2)

	streamtest.Create(o).
		ExpectNext(1).
		ExpectErrorIs(errBoom).
		Verify(t)
}

func TestMerge_InterleavesByArrival(t *testing.T) {
	a := reactive.DelayElements(just("A1", "A2", "A3"), 2*unit)
	b := reactive.DelaySubscription(reactive.DelayElements(just("B1", "B2"), 2*unit), unit)

	streamtest.Create(reactive.Merge(a, b)).
		ExpectNext("A1", "B1", "A2", "B2", "A3").
		ExpectComplete().
		Verify(t)
}

func TestMerge_PreservesPerSourceOrder(t *testing.T) {
	values, err := stream.ToSlice(context.Background(), reactive.Merge(stream.Range(0, 100), stream.Range(1000, 1100)))
	require.NoError(t, err)
	require.Len(t, values, 200)

	lastA, lastB := -1, 999
	for _, v := range values {
		if v < 1000 {
			require.Greater(t, v, lastA)
			lastA = v
		} else {
			require.Greater(t, v, lastB)
			lastB = v
		}
	}
}

func TestMerge_ErrorCancelsOthers(t *testing.T) {
	streamtest.Create(reactive.Merge(stream.Stuck[int](), stream.Error[int](errBoom))).
		ExpectErrorIs(errBoom).
		WithTimeout(time.Second).
		Verify(t)
}

func TestMerge_NoSources(t *testing.T) {
	streamtest.Create(reactive.Merge[int]()).
		ExpectComplete().
		Verify(t)
}

func TestZip_StopsAtShorter(t *testing.T) {
	o := reactive.Zip(just(person1, person2), stream.Range(1, 4), func(p domain.Person, i int) string {
		return p.Name() + "#" + strconv.Itoa(i)
	})

	streamtest.Create(o).
		ExpectNext("Markus#1", "Peter#2").
		ExpectComplete().
		Verify(t)
}

func TestZip_CancelsLongerSource(t *testing.T) {
	var emitted atomic.Int32
	o := reactive.Zip(just("a", "b"), endless(&emitted), func(s string, i int) string {
		return fmt.Sprintf("%s%d", s, i)
	})

	streamtest.Create(o).
		ExpectNext("a0", "b1").
		ExpectComplete().
		WithTimeout(time.Second).
		Verify(t)
	assert.LessOrEqual(t, emitted.Load(), int32(4))
}

func TestZip_Error(t *testing.T) {
	o := reactive.Zip(just(1, 2), stream.Concat(stream.Just(10), stream.Error[int](errBoom)), func(a, b int) int {
		return a + b
	})

	streamtest.Create(o).
		ExpectNext(11).
		ExpectErrorIs(errBoom).
		Verify(t)
}

func TestZip_IgnoresLongerSourceFailureAfterShorterEnds(t *testing.T) {
	o := reactive.Zip(stream.Just(1), stream.Concat(stream.Just(10), stream.Error[int](errBoom)), func(a, b int) int {
		return a + b
	})

	for range 200 {
		streamtest.Create(o).
			ExpectNext(11).
			ExpectComplete().
			Verify(t)
	}
}

func TestCombineLatest(t *testing.T) {
	a := reactive.DelayElements(just("A1", "A2"), 2*unit)
	b := reactive.DelaySubscription(reactive.DelayElements(just("B1", "B2"), 2*unit), unit)

	o := reactive.CombineLatest(a, b, func(a, b string) string { return a + b })

	streamtest.Create(o).
		ExpectNext("A1B1", "A2B1", "A2B2").
		ExpectComplete().
		Verify(t)
}

func TestCombineLatest_EmptySourceCompletes(t *testing.T) {
	o := reactive.CombineLatest(stream.Empty[int](), stream.Stuck[int](), func(a, b int) int { return a + b })

	streamtest.Create(o).
		ExpectComplete().
		WithTimeout(time.Second).
		Verify(t)
}

func TestCombineLatest_Error(t *testing.T) {
	o := reactive.CombineLatest(stream.Error[int](errBoom), stream.Stuck[int](), func(a, b int) int { return a + b })

	streamtest.Create(o).
		ExpectErrorIs(errBoom).
		WithTimeout(time.Second).
		Verify(t)
}

func TestRace_FastestWins(t *testing.T) {
	slow := reactive.DelaySubscription(stream.Just(person1.Name()), 10*unit)
	fast := stream.Just(person2.Name())

	streamtest.Create(reactive.Race(slow, fast)).
		ExpectNext(person2.Name()).
		ExpectComplete().
		Verify(t)
}

func TestRace_CompletionWins(t *testing.T) {
	slow := reactive.DelaySubscription(stream.Just(1), 10*unit)

	streamtest.Create(reactive.Race(slow, stream.Empty[int]())).
		ExpectComplete().
		Verify(t)
}

func TestRace_ErrorWins(t *testing.T) {
	slow := reactive.DelaySubscription(stream.Just(1), 10*unit)

	streamtest.Create(reactive.Race(slow, stream.Error[int](errBoom))).
		ExpectErrorIs(errBoom).
		Verify(t)
}

func TestRace_LosersCancelled(t *testing.T) {
	start := time.Now()

	streamtest.Create(reactive.Race(stream.Stuck[string](), stream.Just("x"))).
		ExpectNext("x").
		ExpectComplete().
		WithTimeout(time.Second).
		Verify(t)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetry_RecoversAfterFailures(t *testing.T) {
	var attempts atomic.Int32
	o := reactive.Retry(reactive.FromCallable(func() (string, error) {
		if attempts.Add(1) < 3 {
			return "", errBoom
		}
		return "ok", nil
	}), reactive.WithInitialInterval(time.Millisecond))

	streamtest.Create(o).
		ExpectNext("ok").
		ExpectComplete().
		Verify(t)
	assert.EqualValues(t, 3, attempts.Load())
}

func TestRetry_GivesUp(t *testing.T) {
	var attempts atomic.Int32
	o := reactive.Retry(reactive.FromCallable(func() (string, error) {
		attempts.Add(1)
		return "", errBoom
	}), reactive.WithMaxRetries(2), reactive.WithInitialInterval(time.Millisecond))

	streamtest.Create(o).
		ExpectErrorIs(errBoom).
		Verify(t)
	assert.EqualValues(t, 3, attempts.Load())
}

func TestRetry_BackoffHonorsContext(t *testing.T) {
	var attempts atomic.Int32
	o := reactive.Retry(reactive.FromCallable(func() (string, error) {
		attempts.Add(1)
		return "", errBoom
	}), reactive.WithMaxRetries(-1), reactive.WithInitialInterval(time.Hour))

	streamtest.Create(o).
		ExpectErrorIs(errBoom).
		WithTimeout(50 * time.Millisecond).
		Verify(t)
	assert.EqualValues(t, 1, attempts.Load())
}

func TestDelayElements_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	values, err := stream.ToSlice(ctx, reactive.DelayElements(just(1, 2), time.Minute))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, values)
}

func TestDoOnEach(t *testing.T) {
	var signals []string
	o := reactive.DoOnEach(stream.Concat(stream.Just(1), stream.Error[int](errBoom)), func(s reactive.Signal[int]) {
		signals = append(signals, s.String())
	})

	streamtest.Create(o).
		ExpectNext(1).
		ExpectError().
		Verify(t)
	assert.Equal(t, []string{"next(1)", "error(boom)"}, signals)
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stream.ToSlice(ctx, reactive.FromCallable(func() (int, error) { return 1, nil }))
	require.ErrorIs(t, err, context.Canceled)

	_, err = stream.ToSlice(ctx, reactive.Merge(stream.Just(1), stream.Stuck[int]()))
	require.ErrorIs(t, err, context.Canceled)

	_, err = stream.ToSlice(ctx, reactive.Zip(stream.Stuck[int](), stream.Just(1), func(a, b int) int { return a + b }))
	require.ErrorIs(t, err, context.Canceled)
}
