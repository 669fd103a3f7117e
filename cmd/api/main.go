package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hammercms/docs"
	"hammercms/internal/auth"
	"hammercms/internal/config"
	"hammercms/internal/database"
	"hammercms/internal/database/migration"
	"hammercms/internal/email"
	handlers "hammercms/internal/http/handler"
	"hammercms/internal/http/middleware"
	"hammercms/internal/otel"
	"hammercms/internal/repository/postgres"
	"hammercms/internal/service"
	"hammercms/internal/storage"
)

// @title HammerCMS API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	// Tracing: OTLP exporter, disabled via OTEL_SDK_DISABLED=true
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// PostgreSQL connection (pooled via database/sql, instrumented with otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	mailer, err := email.NewResend(cfg.Resend)
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	authenticator, err := auth.New(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to initialize auth: %v", err)
	}

	// Repositories and services
	serviceRepo := postgres.NewServicePostgres(db)
	insightRepo := postgres.NewInsightPostgres(db)
	mediaRepo := postgres.NewMediaPostgres(db)

	deps := handlers.Deps{
		DB:       db,
		Catalog:  service.NewCatalogService(serviceRepo, insightRepo),
		Insights: service.NewInsightService(insightRepo),
		Media:    service.NewMediaService(objStore, mediaRepo),
		Contact:  service.NewContactService(mailer, cfg.Resend.ContactTo),
		Auth:     authenticator,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Metrics registry: runtime collectors plus per-request metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Global middleware: request IDs first so the logger and error
	// envelope can reference them
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
