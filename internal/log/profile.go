package log

import (
	"log/slog"
	"time"
)

// Profile logs msg at debug level and returns a func that logs its completion
// with the elapsed time and any extra attributes.
func Profile(logger *slog.Logger, msg string, args ...any) (done func(extra ...any)) {
	st := time.Now()
	logger.Debug(msg, args...)
	return func(extra ...any) {
		all := make([]any, 0, len(args)+len(extra)+2)
		all = append(all, args...)
		all = append(all, extra...)
		all = append(all, "elapsed", time.Since(st))
		logger.Info(msg+" completed", all...)
	}
}
