package setup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	pp "runtime/pprof"
	"time"
)

// Pprof serves the pprof handlers on addr until ctx is done. An empty addr
// disables it.
func Pprof(ctx context.Context, addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	for _, p := range pp.Profiles() {
		mux.Handle("/"+p.Name(), pprof.Handler(p.Name()))
	}

	srv := http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("pprof handler started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to serve pprof handler", "err", err)
		}
	}()

	context.AfterFunc(ctx, func() {
		_ = srv.Close()
		logger.Info("pprof handler stopped")
	})
}
