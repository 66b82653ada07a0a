package log

import (
	"context"
	"log/slog"

	"github.com/mikhailv/reactive-sandbox/internal/stream"
)

var _ slog.Handler = Recorder{}

// Recorder copies every handled record into a buffered stream, so recent logs
// can be served over the API.
type Recorder struct {
	handler slog.Handler
	stream  *stream.Buffered[Entry]
	attrs   []slog.Attr
}

func NewRecorder(handler slog.Handler, bufferSize int) Recorder {
	return Recorder{
		handler: handler,
		stream:  stream.NewBufferedStream[Entry](bufferSize),
	}
}

func (s Recorder) Stream() *stream.Buffered[Entry] {
	return s.stream
}

func (s Recorder) Enabled(ctx context.Context, level slog.Level) bool {
	return s.handler.Enabled(ctx, level)
}

func (s Recorder) Handle(ctx context.Context, record slog.Record) error {
	s.stream.Append(NewEntry(record, s.attrs))
	return s.handler.Handle(ctx, record)
}

func (s Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	own := make([]slog.Attr, 0, len(s.attrs)+len(attrs))
	own = append(own, s.attrs...)
	for _, attr := range attrs {
		if attr.Key != prefixKey {
			own = append(own, attr)
		}
	}
	return Recorder{s.handler.WithAttrs(attrs), s.stream, own}
}

func (s Recorder) WithGroup(name string) slog.Handler {
	return Recorder{s.handler.WithGroup(name), s.stream, s.attrs}
}
