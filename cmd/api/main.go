package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Henryk91/get-company-info/internal/config"
	"github.com/Henryk91/get-company-info/internal/database"
	"github.com/Henryk91/get-company-info/internal/handlers"
	applog "github.com/Henryk91/get-company-info/internal/logger"
	"github.com/Henryk91/get-company-info/internal/middleware"
	"github.com/Henryk91/get-company-info/internal/telemetry"
	"github.com/Henryk91/get-company-info/pkg/googleplaces"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// @title Company Info API
// @version 1.0.0
// @description Cached Google Places lookups per user
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	if err := applog.Init(cfg.LogLevel, cfg.IsDevelopment()); err != nil {
		panic(err)
	}
	defer applog.Sync()
	log := applog.GetLogger("main")

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET_KEY is not set; using the built-in development secret")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	telemetryShutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: telemetry.DefaultServiceName,
		Endpoint:    cfg.SigNozEndpoint,
	})
	if err != nil {
		log.Errorf("Failed to initialize telemetry: %v", err)
		telemetryShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			log.Errorf("Error shutting down telemetry: %v", err)
		}
	}()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	go database.StartConnectionPoolMetricsCollector(ctx, db.DB, 15*time.Second)

	provider := googleplaces.New(googleplaces.Config{
		APIKey:  cfg.GooglePlacesAPIKey,
		BaseURL: cfg.GooglePlacesBaseURL,
		Timeout: cfg.ProviderTimeout,
	})

	app := fiber.New(fiber.Config{
		AppName:      "Company Info API",
		ErrorHandler: handlers.ErrorHandler,
		// enrichment runs inline; leave room for many detail calls
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: time.RFC3339,
	}))
	app.Use(telemetry.New())
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(splitOrigins(cfg.CORSAllowOrigins), ","),
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Authorization, Content-Type, Origin, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	setupRoutes(app, db, cfg, provider)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("Shutting down server...")
		stop()
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
	}()

	log.Infow("Server starting", "port", cfg.ServerPort, "env", cfg.ServerEnv, "db", cfg.DatabaseType)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config, provider *googleplaces.Client) {
	handlers.SetupHealthRoutes(app, db)
	app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())

	api := app.Group("/api")

	// Auth routes (/me requires a token)
	handlers.SetupAuthRoutes(api.Group("/auth"), db, cfg)

	// Places routes (auth required)
	handlers.SetupPlacesRoutes(api.Group("/places"), db, cfg, provider)
}

// splitOrigins trims the comma separated origin list; AllowCredentials
// cannot be combined with a wildcard
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:5173"}
	}
	return origins
}
