// Package streamtest verifies the signals of a stream.Observable against a
// list of expectations, step by step.
package streamtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cilium/stream"
	"github.com/stretchr/testify/require"
)

const defaultTimeout = 5 * time.Second

// ErrNoTerminal is returned by Check when no terminal expectation was given.
var ErrNoTerminal = errors.New("no terminal expectation: call ExpectComplete or ExpectError")

// MismatchError describes the first expectation that did not hold.
type MismatchError struct {
	Step    int
	Message string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}

type stepKind uint8

const (
	stepNext stepKind = iota
	stepNextAnyOrder
	stepNextCount
)

type step[T comparable] struct {
	kind   stepKind
	values []T
	count  int
}

type terminal uint8

const (
	terminalNone terminal = iota
	terminalComplete
	terminalError
)

// Verifier is built with Create and the Expect* methods, then run with Check
// or Verify. It subscribes once per run, so it can be reused.
type Verifier[T comparable] struct {
	src      stream.Observable[T]
	steps    []step[T]
	terminal terminal
	errIs    error
	timeout  time.Duration
}

func Create[T comparable](src stream.Observable[T]) *Verifier[T] {
	return &Verifier[T]{src: src, timeout: defaultTimeout}
}

// ExpectNext expects exactly these values, in this order.
func (v *Verifier[T]) ExpectNext(values ...T) *Verifier[T] {
	v.steps = append(v.steps, step[T]{kind: stepNext, values: values})
	return v
}

// ExpectNextInAnyOrder expects the next len(values) values to be a
// permutation of values.
func (v *Verifier[T]) ExpectNextInAnyOrder(values ...T) *Verifier[T] {
	v.steps = append(v.steps, step[T]{kind: stepNextAnyOrder, values: values})
	return v
}

// ExpectNextCount skips n values of any content. A negative n is reported as
// a mismatch by Check.
func (v *Verifier[T]) ExpectNextCount(n int) *Verifier[T] {
	v.steps = append(v.steps, step[T]{kind: stepNextCount, count: n})
	return v
}

func (v *Verifier[T]) ExpectComplete() *Verifier[T] {
	v.terminal = terminalComplete
	return v
}

func (v *Verifier[T]) ExpectError() *Verifier[T] {
	v.terminal = terminalError
	v.errIs = nil
	return v
}

// ExpectErrorIs expects a failure matching target with errors.Is.
func (v *Verifier[T]) ExpectErrorIs(target error) *Verifier[T] {
	v.terminal = terminalError
	v.errIs = target
	return v
}

// WithTimeout bounds how long Check waits for the terminal signal.
func (v *Verifier[T]) WithTimeout(d time.Duration) *Verifier[T] {
	v.timeout = d
	return v
}

// Verify runs Check and fails t when it reports an error.
func (v *Verifier[T]) Verify(t testing.TB) {
	t.Helper()
	require.NoError(t, v.Check(context.Background()))
}

// Check subscribes to the source, waits for its terminal signal and matches
// what was received against the expectations.
func (v *Verifier[T]) Check(ctx context.Context) error {
	if v.terminal == terminalNone {
		return ErrNoTerminal
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	values, err := stream.ToSlice(ctx, v.src)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		return fmt.Errorf("no terminal signal within %s after %d values: %w", v.timeout, len(values), err)
	}

	pos := 0
	for i, s := range v.steps {
		n := len(s.values)
		if s.kind == stepNextCount {
			if s.count < 0 {
				return &MismatchError{Step: i, Message: fmt.Sprintf("invalid value count %d", s.count)}
			}
			n = s.count
		}
		if pos+n > len(values) {
			return &MismatchError{Step: i, Message: fmt.Sprintf("expected %d more values, got %v then %s", n, values[pos:], describe(err))}
		}
		got := values[pos : pos+n]
		switch s.kind {
		case stepNext:
			for j := range got {
				if got[j] != s.values[j] {
					return &MismatchError{Step: i, Message: fmt.Sprintf("expected next %v, got %v", s.values[j], got[j])}
				}
			}
		case stepNextAnyOrder:
			if !sameElements(got, s.values) {
				return &MismatchError{Step: i, Message: fmt.Sprintf("expected %v in any order, got %v", s.values, got)}
			}
		case stepNextCount:
		}
		pos += n
	}

	last := len(v.steps)
	if pos < len(values) {
		return &MismatchError{Step: last, Message: fmt.Sprintf("unexpected values %v", values[pos:])}
	}

	switch v.terminal {
	case terminalComplete:
		if err != nil {
			return &MismatchError{Step: last, Message: fmt.Sprintf("expected completion, got %s", describe(err))}
		}
	case terminalError:
		if err == nil {
			return &MismatchError{Step: last, Message: "expected error, got completion"}
		}
		if v.errIs != nil && !errors.Is(err, v.errIs) {
			return &MismatchError{Step: last, Message: fmt.Sprintf("expected error %q, got %q", v.errIs, err)}
		}
	case terminalNone:
	}
	return nil
}

func describe(err error) string {
	if err == nil {
		return "completion"
	}
	return fmt.Sprintf("error %q", err)
}

func sameElements[T comparable](got, want []T) bool {
	if len(got) != len(want) {
		return false
	}
	counts := make(map[T]int, len(want))
	for _, w := range want {
		counts[w]++
	}
	for _, g := range got {
		if counts[g] == 0 {
			return false
		}
		counts[g]--
	}
	return true
}
