// Package main is the entry point for the trip expense API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripledger/api/internal/config"
	"github.com/tripledger/api/internal/fx"
	"github.com/tripledger/api/internal/handler"
	"github.com/tripledger/api/internal/middleware"
	"github.com/tripledger/api/internal/repo"
	"github.com/tripledger/api/internal/scanning"
	"github.com/tripledger/api/internal/service"
	"github.com/tripledger/api/spec"
)

// maxBodyBytes caps request bodies across the whole API. Sized for receipt
// image uploads, the largest payload the API accepts; the scan handler
// enforces the same limit with a multipart-aware error.
const maxBodyBytes = 10 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log
	// aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Repositories -----------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	memberRepo := repo.NewMemberRepo(pool)
	expenseRepo := repo.NewExpenseRepo(pool)
	rateRepo := repo.NewRateRepo(pool)
	statsRepo := repo.NewStatsRepo(pool)

	// --- Rate resolution --------------------------------------------------
	// Without an API key the resolver skips live lookups and works from
	// cached snapshots and the static fallback table.
	var provider fx.RateProvider
	if cfg.FXAPIKey != "" {
		provider = fx.NewClient(cfg.FXAPIURL, cfg.FXAPIKey, 10*time.Second, logger)
	} else {
		slog.Warn("FX_API_KEY not set, live exchange rates disabled")
	}
	resolver := fx.NewResolver(provider, rateRepo, logger)

	// --- Receipt scanning -------------------------------------------------
	var scanner scanning.Scanner
	if cfg.GeminiAPIKey != "" {
		scanner, err = scanning.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("failed to create receipt scanner", "error", err)
			os.Exit(1)
		}
		defer scanner.Close()
	} else {
		slog.Warn("GEMINI_API_KEY not set, receipt scanning disabled")
	}

	// --- Services ---------------------------------------------------------
	tripService := service.NewTripService(tripRepo, memberRepo, expenseRepo)
	expenseService := service.NewExpenseService(tripRepo, memberRepo, expenseRepo, resolver)
	reportService := service.NewReportService(tripRepo, memberRepo, expenseRepo)
	convertService := service.NewConvertService(resolver)
	adminService := service.NewAdminService(statsRepo)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS →
	// body size cap. RequestID first so the logger can pick it up;
	// Recoverer after the logger so panics still produce a request line.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	srv := handler.NewServer(tripService, expenseService, reportService, convertService, adminService, scanner)
	r.Mount("/", srv.Routes())

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
