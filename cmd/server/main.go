package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vcardimport/internal/jwt_token"
	"vcardimport/internal/platform/config"
	"vcardimport/internal/platform/httpserver"
	"vcardimport/internal/platform/logger"
	platformmetrics "vcardimport/internal/platform/metrics"
	"vcardimport/internal/vcard/app"
	"vcardimport/internal/vcard/handler"
	"vcardimport/internal/vcard/metrics"
	"vcardimport/pkg/platform/httputil"
	authmw "vcardimport/pkg/platform/middleware/auth"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/vcard.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	a, err := app.New(ctx, cfg, log, app.Options{Metrics: metrics.New()})
	if err != nil {
		return err
	}
	defer a.Close()

	var validator authmw.JWTValidator
	if cfg.Server.JWTSigningKey != "" {
		jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
		validator = jwttoken.NewJWTServiceAdapter(jwtService)
	} else if cfg.Server.APIKeyHash == "" {
		log.Warn("import API is unauthenticated: set JWT_SIGNING_KEY or API_KEY_HASH")
	}

	r := chi.NewRouter()
	r.Use(platformmetrics.New().Middleware)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Ready(checkCtx); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	handler.New(a.Service, log, validator, []byte(cfg.Server.APIKeyHash)).Register(r)

	return httpserver.Run(ctx, httpserver.New(cfg.Server.Addr, r), cfg.Server.ShutdownTimeout, log)
}
