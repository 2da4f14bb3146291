package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"defiquiz/docs"
	"defiquiz/internal/config"
	"defiquiz/internal/database"
	"defiquiz/internal/database/migration"
	handlers "defiquiz/internal/http/handler"
	"defiquiz/internal/http/middleware"
	"defiquiz/internal/manifest"
	"defiquiz/internal/nomi"
	"defiquiz/internal/otel"
	"defiquiz/internal/repository/postgres"
	"defiquiz/internal/seed"
	"defiquiz/internal/selfid"
	"defiquiz/internal/service"
	"defiquiz/internal/storage"
	"defiquiz/internal/store"
	_ "defiquiz/internal/store/all"
)

const shutdownTimeout = 10 * time.Second

// @title DeFi Quiz API
// @version 1.0
// @BasePath /
func main() {
	// .env is auto-loaded if present; real environment variables win.
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, cfg.Location())

	if err := run(cfg); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Error("tracing_shutdown_failed", "error", err)
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if _, err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
			return err
		}
		bank, err := seed.Load()
		if err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
		if err := seed.Apply(ctx, db, bank); err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
	}

	kv, err := store.Build(ctx, cfg.Store.Backend, cfg.Store.BackendConfig())
	if err != nil {
		return fmt.Errorf("build %s store: %w", cfg.Store.Backend, err)
	}
	slog.Info("store_configured", "backend", cfg.Store.Backend)

	var voiceCache storage.Storage
	if cfg.MinIO.Enabled() {
		voiceCache, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
	} else {
		slog.Info("voice_cache_disabled", "reason", "MINIO_ENDPOINT not set")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}
	quizMetrics, err := service.NewQuizMetrics(reg)
	if err != nil {
		return fmt.Errorf("register quiz metrics: %w", err)
	}

	protocolRepo := postgres.NewProtocolPostgres(db)
	questionRepo := postgres.NewQuestionPostgres(db)

	outbound := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	nomiClient := nomi.New(cfg.Nomi.APIURL, cfg.Nomi.Timeout, nomi.WithHTTPClient(outbound))
	verifier := selfid.NewHTTPVerifier(selfid.HTTPConfig{
		URL:        cfg.Self.VerifierURL,
		Scope:      cfg.Self.Scope,
		Endpoint:   strings.TrimRight(cfg.SiteURL, "/") + "/api/verify-self",
		UseMock:    cfg.Self.UseMock,
		MinimumAge: cfg.Self.MinimumAge,
		Timeout:    cfg.Self.Timeout,
	}, outbound)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.AdminSecretHeader + ", " + middleware.RequestIDHeader,
	}))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:           db,
		Quiz:         service.NewQuizService(protocolRepo, questionRepo, kv, quizMetrics),
		Protocols:    service.NewProtocolService(protocolRepo, questionRepo),
		Verification: service.NewVerificationService(verifier, kv, cfg.Self.Scope),
		Nomi:         service.NewNomiService(nomiClient, protocolRepo, voiceCache),
		Manifest:     manifest.NewSource(cfg.ManifestPath, cfg.SiteURL),
		AdminSecret:  cfg.AdminSecret,
		Limiter:      middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", handlers.Swagger(docs.SwaggerInfo, cfg.AppHost))

	if cfg.AdminSecret == "" {
		slog.Warn("admin_disabled", "reason", "ADMIN_SECRET not set")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		slog.Info("server_listening", "addr", addr)
		if err := app.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("server_shutdown", "reason", context.Cause(gctx))
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	return g.Wait()
}
