package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type worker interface {
	Run(ctx context.Context) error
}

// serve runs srv and the notification worker until ctx ends or either one
// fails. The worker keeps its own context and is stopped only after
// srv.Shutdown returns, so events raised by in-flight requests still reach
// its final drain.
func serve(ctx context.Context, srv server, notifications worker, shutdownTimeout time.Duration, log *slog.Logger) error {
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return notifications.Run(workerCtx) })
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		defer stopWorker()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
