package sandbox

import (
	"errors"
	"time"

	"github.com/mikhailv/reactive-sandbox/internal/reactive"
	"github.com/mikhailv/reactive-sandbox/internal/stream"
)

var (
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrIntentional is the failure emitted by the error scenario.
	ErrIntentional = errors.New("intentional failure")
)

var _ stream.CursorAware = (*SignalEntry)(nil)

// SignalEntry is one signal observed during a scenario run.
type SignalEntry struct {
	Cursor   stream.Cursor `json:"cursor"`
	Time     time.Time     `json:"time"`
	RunID    string        `json:"runId"`
	Scenario string        `json:"scenario"`
	Kind     reactive.Kind `json:"kind"`
	Value    string        `json:"value,omitempty"`
	Err      string        `json:"error,omitempty"`
}

func (e *SignalEntry) SetCursor(cursor stream.Cursor) {
	e.Cursor = cursor
}

type Report struct {
	RunID     string        `json:"runId"`
	Scenario  string        `json:"scenario"`
	Operator  string        `json:"operator"`
	Values    []string      `json:"values"`
	Completed bool          `json:"completed"`
	Error     string        `json:"error,omitempty"`
	Passed    bool          `json:"passed"`
	Mismatch  string        `json:"mismatch,omitempty"`
	Duration  time.Duration `json:"duration"`
}
