package sandbox

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	rx "github.com/cilium/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikhailv/reactive-sandbox/internal/config"
	"github.com/mikhailv/reactive-sandbox/internal/reactive"
	"github.com/mikhailv/reactive-sandbox/internal/reactive/streamtest"
	"github.com/mikhailv/reactive-sandbox/internal/stream"
)

func newTestRunner(scenarios []Scenario) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(logger, scenarios, stream.NewBufferedStream[SignalEntry](100), time.Second)
}

func TestRunner_Run(t *testing.T) {
	r := newTestRunner(Catalog(config.DefaultConfig()))

	report, err := r.Run(context.Background(), "zip")
	require.NoError(t, err)

	assert.True(t, report.Passed, report.Mismatch)
	assert.Equal(t, "Zip", report.Operator)
	assert.Equal(t, []string{"1:Markus", "2:Peter"}, report.Values)
	assert.True(t, report.Completed)
	assert.Empty(t, report.Error)
	assert.NotEmpty(t, report.RunID)

	res := r.SignalStream().Query(0, 10, nil)
	require.Len(t, res.Items, 3)
	assert.Equal(t, reactive.KindNext, res.Items[0].Kind)
	assert.Equal(t, "1:Markus", res.Items[0].Value)
	assert.Equal(t, reactive.KindComplete, res.Items[2].Kind)
	for _, e := range res.Items {
		assert.Equal(t, report.RunID, e.RunID)
		assert.Equal(t, "zip", e.Scenario)
		assert.NotZero(t, e.Cursor)
	}
}

func TestRunner_ExpectedErrorPasses(t *testing.T) {
	r := newTestRunner(Catalog(config.DefaultConfig()))

	report, err := r.Run(context.Background(), "error")
	require.NoError(t, err)
	assert.True(t, report.Passed, report.Mismatch)
	assert.False(t, report.Completed)
	assert.Equal(t, ErrIntentional.Error(), report.Error)
}

func TestRunner_UnknownScenario(t *testing.T) {
	r := newTestRunner(nil)

	_, err := r.Run(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownScenario)
}

func TestRunner_Mismatch(t *testing.T) {
	broken := Scenario{
		Name:     "broken",
		Operator: "Map",
		build: func() rx.Observable[string] {
			return rx.FromSlice([]string{"a", "b"})
		},
		expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
			return v.ExpectNext("a").ExpectComplete()
		},
	}
	r := newTestRunner([]Scenario{broken})

	report, err := r.Run(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Mismatch, "unexpected values [b]")
}

func TestRunner_Timeout(t *testing.T) {
	stuck := Scenario{
		Name: "stuck",
		build: func() rx.Observable[string] {
			return reactive.DelaySubscription(rx.Just("late"), time.Minute)
		},
		expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
			return v.ExpectNext("late").ExpectComplete()
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRunner(logger, []Scenario{stuck}, stream.NewBufferedStream[SignalEntry](10), 20*time.Millisecond)

	report, err := r.Run(context.Background(), "stuck")
	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Mismatch, "no terminal signal")
}

func TestRunner_RunAll(t *testing.T) {
	r := newTestRunner(Catalog(config.DefaultConfig()))

	reports, err := r.RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, len(r.Scenarios()))
	for _, report := range reports {
		assert.True(t, report.Passed, "%s: %s", report.Scenario, report.Mismatch)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	r := newTestRunner(Catalog(config.DefaultConfig()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := r.RunAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
}
