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

	"permitflow/docs"
	"permitflow/internal/compliance"
	"permitflow/internal/config"
	"permitflow/internal/database"
	"permitflow/internal/database/migration"
	handlers "permitflow/internal/http/handler"
	"permitflow/internal/http/middleware"
	"permitflow/internal/ocr"
	permitflowotel "permitflow/internal/otel"
	"permitflow/internal/repository/postgres"
	"permitflow/internal/review"
	"permitflow/internal/service"
	"permitflow/internal/storage"
)

// @title Permit Workflow API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	loc := time.UTC

	// Initialize OpenTelemetry tracing (no-op when disabled or misconfigured)
	shutdownTracing, err := permitflowotel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create the schema on first boot against an empty database
	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// External services are optional; the document pipeline degrades without them
	var extractor ocr.TextExtractor
	if cfg.OCR.Endpoint != "" {
		extractor = ocr.NewHTTPExtractor(cfg.OCR.Endpoint, cfg.OCR.Timeout)
	}
	var reviewer review.Reviewer
	if cfg.Reviewer.Endpoint != "" {
		reviewer = review.NewOpenAIClient(cfg.Reviewer.Endpoint, cfg.Reviewer.APIKey, cfg.Reviewer.Model, cfg.Reviewer.Timeout)
	}
	scorer := compliance.NewScorer(cfg.Compliance, reviewer)

	// Initialize repositories and services
	appRepo := postgres.NewApplicationPostgres(db)
	wfRepo := postgres.NewWorkflowPostgres(db)
	inspRepo := postgres.NewInspectionPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)

	appSvc := service.NewApplicationService(db, appRepo, wfRepo)
	wfSvc := service.NewWorkflowService(db, appRepo, wfRepo)
	inspSvc := service.NewInspectionService(db, inspRepo, appRepo, wfRepo)
	docSvc := service.NewDocumentService(db, objStore, docRepo, appRepo, wfRepo, extractor, scorer)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Distributed tracing for every request
	app.Use(otelfiber.Middleware())

	// Request metrics with a dedicated registry exposed on /metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, appSvc, wfSvc, inspSvc, docSvc)

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
