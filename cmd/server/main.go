package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kitaguard/internal/domain/audit"
	"kitaguard/internal/domain/auth"
	"kitaguard/internal/domain/compliance"
	"kitaguard/internal/domain/integrity"
	"kitaguard/internal/domain/lifecycle"
	"kitaguard/internal/domain/retention"
	"kitaguard/internal/platform/config"
	"kitaguard/internal/platform/db"
	"kitaguard/internal/platform/jobs"
	"kitaguard/internal/platform/metrics"
	audithandler "kitaguard/internal/transport/http/handlers/audit"
	authhandler "kitaguard/internal/transport/http/handlers/auth"
	gdprhandler "kitaguard/internal/transport/http/handlers/gdpr"
	"kitaguard/internal/transport/http/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "err", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	auditSvc := audit.NewService(audit.NewStore(pool))
	authSvc := auth.NewService(auth.NewStore(pool), auditSvc)
	lifecycleSvc := lifecycle.NewService(lifecycle.NewStore(pool))

	retentionStore := retention.NewStore(pool)
	policies := retention.NewPolicyTable(cfg.RetentionDays)
	engine := retention.NewEngine(retentionStore, auditSvc, policies, m)

	complianceSvc := compliance.NewService(auditSvc, cfg.AnomalyThreshold, m)
	integritySvc := integrity.NewService(retentionStore, auditSvc, cfg.BlobStorageDir, m)

	scheduler := jobs.New(engine, retentionStore, cfg, m)
	if err := scheduler.Start(ctx); err != nil {
		slog.Error("purge scheduler failed to start", "err", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recovery)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authSvc, cfg.JWTSecret)
		authHandler.RegisterRoutes(r)

		gdprHandler := gdprhandler.NewHandler(lifecycleSvc, engine, scheduler, complianceSvc, integritySvc, retentionStore)
		gdprHandler.RegisterRoutes(r)

		auditHandler := audithandler.NewHandler(auditSvc, cfg.AuditLogLimit)
		auditHandler.RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown failed", "err", err)
		}
	}()

	slog.Info("kitaguard server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
