package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/mikhailv/reactive-sandbox/internal/config"
	"github.com/mikhailv/reactive-sandbox/internal/log"
	"github.com/mikhailv/reactive-sandbox/internal/sandbox"
	"github.com/mikhailv/reactive-sandbox/internal/server"
	"github.com/mikhailv/reactive-sandbox/internal/setup"
	"github.com/mikhailv/reactive-sandbox/internal/stream"
	"github.com/mikhailv/reactive-sandbox/internal/util"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := setup.ListenStopSignal(context.Background())
	defer stop()

	configFile := flag.String("config", "", "config file path (defaults are used when empty)")
	pprofAddr := flag.String("pprof", "", "pprof handler address")
	debug := flag.Bool("debug", false, "enable debug logging")
	serve := flag.Bool("serve", false, "serve the scenario catalog over HTTP instead of running it once")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger, logStream, closeLog, err := setupLogger(*debug, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to setup logger: %v\n", err)
		return 1
	}
	defer closeLog()

	setup.Pprof(ctx, *pprofAddr, log.WithPrefix(logger, "pprof"))

	signals := stream.NewBufferedStream[sandbox.SignalEntry](cfg.History.SignalSize)
	runner := sandbox.NewRunner(log.WithPrefix(logger, "runner"), sandbox.Catalog(cfg), signals, cfg.Scenarios.Timeout)

	if !*serve {
		return runOnce(ctx, logger, runner)
	}

	httpServer := server.NewHTTPServer(cfg.HTTPAddr, log.WithPrefix(logger, "http"), runner, logStream)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		util.RunPeriodically(gctx, cfg.Schedule.Interval, func(ctx context.Context) {
			runOnce(ctx, logger, runner)
		})
		return nil
	})
	g.Go(func() error {
		return httpServer.Serve(gctx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server failed", "err", err)
		return 1
	}
	return 0
}

func runOnce(ctx context.Context, logger *slog.Logger, runner *sandbox.Runner) int {
	reports, err := runner.RunAll(ctx)
	if err != nil {
		logger.Error("scenario run interrupted", "err", err)
		return 1
	}

	failed := 0
	for _, r := range reports {
		if !r.Passed {
			failed++
		}
		logger.Info("scenario", "name", r.Scenario, "operator", r.Operator, "values", r.Values, "passed", r.Passed)
	}
	logger.Info("scenarios finished", "total", len(reports), "failed", failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func setupLogger(debug bool, cfg *config.Config) (*slog.Logger, *stream.Buffered[log.Entry], func(), error) {
	var recorder log.Recorder
	logger, closeFn, err := setup.Logger(debug, cfg.LogFile, func(handler slog.Handler) slog.Handler {
		recorder = log.NewRecorder(handler, cfg.History.LogSize)
		return recorder
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return logger, recorder.Stream(), closeFn, nil
}
