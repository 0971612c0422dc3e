package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dataroom/internal/auth"
	"dataroom/internal/cache"
	"dataroom/internal/config"
	"dataroom/internal/database"
	"dataroom/internal/database/migration"
	handlers "dataroom/internal/http/handler"
	"dataroom/internal/http/middleware"
	"dataroom/internal/otel"
	"dataroom/internal/repository/postgres"
	"dataroom/internal/service"
	"dataroom/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "dataroom").Logger()
	if cfg.Development() {
		logger = logger.Level(zerolog.DebugLevel)
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialize tracing")
	}
	defer shutdownTracing(ctx)

	// PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("apply schema migrations")
	}

	// S3-compatible object storage and the background blob janitor
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialize object storage")
	}
	janitor := storage.NewJanitor(objStore, 4, logger)
	defer janitor.Close()

	// Result cache: Redis when configured, in-process otherwise
	var results cache.Cache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.Cache.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("initialize redis cache")
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
		defer redisCache.Close()
		results = redisCache
	} else {
		results = cache.NewMemory()
	}

	// Repositories
	userRepo := postgres.NewUserPostgres(db)
	roomRepo := postgres.NewDataRoomPostgres(db)
	folderRepo := postgres.NewFolderPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)

	// Authentication pipeline
	verifier := auth.NewVerifier(auth.VerifierOpts{
		PrimarySecret:   cfg.Auth.PrimarySecret,
		SecondarySecret: cfg.Auth.SecondarySecret,
		Issuer:          cfg.Auth.IssuerURL,
		Leeway:          cfg.Auth.Leeway,
		MaxAge:          cfg.Auth.MaxTokenAge,
	})
	var remote auth.RemoteVerifier
	if cfg.Auth.IssuerURL != "" {
		remote = auth.NewRemoteVerifier(cfg.Auth.IssuerURL, cfg.Auth.ServiceKey)
	}
	limiter := auth.NewRateLimiter(auth.RateLimiterOpts{
		MaxFailed:      cfg.Auth.MaxFailedAttempts,
		FailedWindow:   cfg.Auth.FailedWindow,
		MaxFallback:    cfg.Auth.MaxFallbackAttempts,
		FallbackWindow: cfg.Auth.FallbackWindow,
	})
	pipeline := auth.NewPipeline(
		verifier,
		remote,
		auth.NewIdentityCache(cfg.Auth.IdentityCacheTTL),
		limiter,
		userRepo,
		logger,
	)

	// Services
	conflicts := service.NewConflictChecker(folderRepo, fileRepo)
	roomSvc := service.NewDataRoomService(roomRepo, folderRepo, fileRepo, results, cfg.Cache.DefaultTTL, logger)
	folderSvc := service.NewFolderService(folderRepo, fileRepo, roomRepo, conflicts, janitor, results, cfg.Cache.DefaultTTL, logger)
	fileSvc := service.NewFileService(fileRepo, folderRepo, roomRepo, conflicts, objStore, janitor, results, cfg.Upload.MaxFileSize, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(cfg.Upload.MaxFileSize) + 1<<20,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE",
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("register prometheus metrics")
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, middleware.Auth(pipeline),
		handlers.NewDataRoomHandler(roomSvc),
		handlers.NewFolderHandler(folderSvc),
		handlers.NewFileHandler(fileSvc),
	)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("start server")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("server started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
}
