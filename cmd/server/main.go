package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bolsas/internal/application/handler"
	appmetrics "bolsas/internal/application/metrics"
	"bolsas/internal/application/service"
	jwttoken "bolsas/internal/jwt_token"
	"bolsas/internal/platform/config"
	"bolsas/internal/platform/httpserver"
	"bolsas/internal/platform/logger"
	httpmetrics "bolsas/internal/platform/metrics"
	"bolsas/pkg/platform/httputil"
	"bolsas/pkg/platform/middleware/ratelimit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	appMetrics := appmetrics.New()
	dispatcher := deps.dispatcher(log, appMetrics, cfg.Server.ShutdownTimeout/2)

	svc := service.New(deps.store, deps.calls, deps.checklist, dispatcher,
		service.WithLogger(log),
		service.WithMetrics(appMetrics),
		service.WithSocialBeforeLegal(cfg.Workflow.RequireSocialBeforeLegal),
	)

	limiter := ratelimit.New(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, log)
	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	h := handler.New(svc, log, jwttoken.NewJWTServiceAdapter(jwtService),
		handler.WithMetrics(httpmetrics.New()),
		handler.WithRateLimiter(limiter),
		handler.WithTimeout(cfg.Server.RequestTimeout),
	)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Ready(r.Context(), svc); err != nil {
			log.WarnContext(r.Context(), "readiness check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	router.Handle("/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	go limiter.Run(ctx)
	log.Info("starting bolsas", "addr", cfg.Server.Addr, "postgres", deps.db != nil, "redis", deps.redis != nil, "kafka", deps.kafka != nil)
	err = serve(ctx, srv, dispatcher, cfg.Server.ShutdownTimeout, log)
	<-dispatcher.Done()
	return err
}
