package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mikhailv/reactive-sandbox/internal/log"
	"github.com/mikhailv/reactive-sandbox/internal/metrics"
	"github.com/mikhailv/reactive-sandbox/internal/reactive"
	"github.com/mikhailv/reactive-sandbox/internal/reactive/streamtest"
	"github.com/mikhailv/reactive-sandbox/internal/stream"
)

// Runner executes scenarios, records every observed signal into the signal
// stream and reports whether the expectations held.
type Runner struct {
	logger    *slog.Logger
	scenarios []Scenario
	byName    map[string]int
	signals   *stream.Buffered[SignalEntry]
	timeout   time.Duration
}

func NewRunner(logger *slog.Logger, scenarios []Scenario, signals *stream.Buffered[SignalEntry], timeout time.Duration) *Runner {
	byName := make(map[string]int, len(scenarios))
	for i, s := range scenarios {
		byName[s.Name] = i
	}
	return &Runner{
		logger:    logger,
		scenarios: scenarios,
		byName:    byName,
		signals:   signals,
		timeout:   timeout,
	}
}

func (r *Runner) Scenarios() []Scenario {
	return r.scenarios
}

func (r *Runner) SignalStream() *stream.Buffered[SignalEntry] {
	return r.signals
}

// Run executes one scenario. The error is only set for an unknown scenario
// or a cancelled ctx; failed expectations are reported through Report.
func (r *Runner) Run(ctx context.Context, name string) (Report, error) {
	i, ok := r.byName[name]
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	sc := r.scenarios[i]

	report := Report{
		RunID:    uuid.NewString(),
		Scenario: sc.Name,
		Operator: sc.Operator,
	}
	logger := r.logger.With("scenario", sc.Name, "run", report.RunID)
	done := log.Profile(logger, "running scenario")
	defer metrics.TrackNamedDuration("scenario", sc.Name)()

	start := time.Now()
	src := reactive.DoOnEach(sc.Source(), func(s reactive.Signal[string]) {
		r.record(&report, s)
	})
	err := sc.Verifier(src).WithTimeout(r.timeout).Check(ctx)
	report.Duration = time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return report, ctxErr
	}

	report.Passed = err == nil
	if err != nil {
		report.Mismatch = err.Error()
		var mismatch *streamtest.MismatchError
		if !errors.As(err, &mismatch) {
			logger.Error("scenario did not terminate", "err", err)
		}
		logger.Warn("scenario failed", "mismatch", report.Mismatch)
		metrics.TrackStatus("scenario", "failed")
	} else {
		metrics.TrackStatus("scenario", "passed")
	}
	done("passed", report.Passed, "values", len(report.Values))
	return report, nil
}

// RunAll runs the scenarios one by one in catalog order.
func (r *Runner) RunAll(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(r.scenarios))
	for _, sc := range r.scenarios {
		report, err := r.Run(ctx, sc.Name)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *Runner) record(report *Report, s reactive.Signal[string]) {
	entry := SignalEntry{
		Time:     time.Now().UTC(),
		RunID:    report.RunID,
		Scenario: report.Scenario,
		Kind:     s.Kind,
	}
	switch s.Kind {
	case reactive.KindNext:
		entry.Value = s.Value
		report.Values = append(report.Values, s.Value)
	case reactive.KindComplete:
		report.Completed = true
	case reactive.KindError:
		entry.Err = s.Err.Error()
		report.Error = entry.Err
	}
	r.signals.Append(entry)
	metrics.TrackSignal(report.Scenario, s.Kind.String())
}
