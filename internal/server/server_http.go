package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/mikhailv/reactive-sandbox/internal/log"
	"github.com/mikhailv/reactive-sandbox/internal/metrics"
	"github.com/mikhailv/reactive-sandbox/internal/sandbox"
	"github.com/mikhailv/reactive-sandbox/internal/stream"
)

type FilterFunc[T any] func(val T) bool

type HTTPServer struct {
	logger    *slog.Logger
	server    http.Server
	runner    *sandbox.Runner
	logStream *stream.Buffered[log.Entry]
}

func NewHTTPServer(addr string, logger *slog.Logger, runner *sandbox.Runner, logStream *stream.Buffered[log.Entry]) *HTTPServer {
	return &HTTPServer{
		logger: logger,
		server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		runner:    runner,
		logStream: logStream,
	}
}

// Serve blocks until ctx is done or the listener fails.
func (s *HTTPServer) Serve(ctx context.Context) error {
	s.server.Handler = s.Handler()

	context.AfterFunc(ctx, func() {
		s.logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("failed to shutdown server", "err", err)
		}
	})

	s.logger.Info("server starting...", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *HTTPServer) Handler() http.Handler {
	wsLogger := log.WithPrefix(s.logger, "ws")
	signals := s.runner.SignalStream()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /api/scenarios", s.wrapHandler(s.handleScenarios))
	mux.Handle("POST /api/scenarios/{name}/run", s.wrapHandler(s.handleRunScenario))
	mux.Handle("POST /api/run", s.wrapHandler(s.handleRunAll))
	mux.Handle("GET /api/signals", createListHandler(signals, s.filterSignals))
	mux.Handle("GET /api/signals/ws", createStreamHandler(signals, wsLogger, s.filterSignals))
	mux.Handle("GET /api/logs", createListHandler(s.logStream, s.filterLogs))
	mux.Handle("GET /api/logs/ws", createStreamHandler(s.logStream, wsLogger, s.filterLogs))

	return cors.Default().Handler(mux)
}

func (s *HTTPServer) wrapHandler(handler func(w http.ResponseWriter, req *http.Request) (statusCode int, err error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, pattern := r.Method, r.Pattern
		operation := fmt.Sprintf("%s %s", method, pattern)
		defer metrics.TrackDuration(operation)()
		statusCode, err := handler(w, r)
		if err != nil {
			http.Error(w, err.Error(), statusCode)
			s.logger.Error(err.Error(), "method", method, "path", r.URL.Path, "statusCode", statusCode)
		}
		metrics.TrackStatus(operation, strconv.Itoa(statusCode))
	})
}
