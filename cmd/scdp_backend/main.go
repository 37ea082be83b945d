package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/streetcauseviit/donation_poster_app/internal/adapters/ai"
	"github.com/streetcauseviit/donation_poster_app/internal/adapters/email"
	"github.com/streetcauseviit/donation_poster_app/internal/adapters/poster"
	"github.com/streetcauseviit/donation_poster_app/internal/adapters/storage"
	"github.com/streetcauseviit/donation_poster_app/internal/core/services"
	"github.com/streetcauseviit/donation_poster_app/internal/handlers"
	"github.com/streetcauseviit/donation_poster_app/internal/middleware"
	"github.com/streetcauseviit/donation_poster_app/internal/platform/config"
	"github.com/streetcauseviit/donation_poster_app/internal/repositories/database/pgsql"
	"github.com/streetcauseviit/donation_poster_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Street Cause Donation Poster API
// @version 1.0
// @description Donation intake and thank-you poster issuance backend.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
// @description Shared token guarding the moderation routes.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// External collaborators
	blobs, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		logger.Error("Failed to initialize blob store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	renderer, err := poster.NewRenderer(cfg.PosterLogoPath)
	if err != nil {
		logger.Error("Failed to initialize poster renderer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	generator := ai.NewAppreciationGenerator(cfg.AIGatewayURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	mailer := email.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailTimeout)

	// Wire repositories and services
	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewContainer(repos, services.Collaborators{
		Generator: generator,
		Renderer:  renderer,
		Mailer:    mailer,
		Blobs:     blobs,
	},
		services.WithGenerateTimeout(cfg.AITimeout),
		services.WithEmailTimeout(cfg.EmailTimeout),
	)

	// Rate limiter for the public submission routes
	rate, err := limiter.NewRateFromFormatted(cfg.SubmitRateLimit)
	if err != nil {
		logger.Error("Invalid SUBMIT_RATE_LIMIT", slog.String("error", err.Error()))
		os.Exit(1)
	}
	submitLimiter := limiter.New(memorystore.NewStore(), rate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", middleware.AdminTokenHeader},
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, submitLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		migrationDB.Close()
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
