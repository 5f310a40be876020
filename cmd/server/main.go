package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/application"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/config"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/events"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/handler"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/notification"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/cache"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/database"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/health"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/kafka"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/logger"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/middleware"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/rabbitmq"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/telemetry"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/repository"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/validation"
)

const serviceName = "service-tourguide"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, cfg.AppEnv, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.PlaceModel{},
			&repository.GuideModel{},
			&repository.BookingModel{},
			&repository.ReconciliationTaskModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Optional Redis: session denylist, directory cache and rate limiting
	rdb := cache.NewRedisClient(cfg.RedisConfig, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	var sessions application.SessionStore = repository.NewMemorySessionStore()
	var directoryCache application.DirectoryCache
	if rdb != nil {
		sessions = repository.NewRedisSessionStore(rdb)
		directoryCache = repository.NewRedisDirectoryCache(rdb, cfg.DirectoryTTL)
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.TTL, cfg.JWTConfig.Issuer)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Email dispatch
	var notifier notification.Notifier = notification.NewLogNotifier(log)
	if cfg.RabbitConfig.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitConfig.URL, cfg.RabbitConfig.Queue)
		if err != nil {
			log.Warn("rabbitmq unavailable, logging approval emails instead", zap.Error(err))
		} else {
			defer func() { _ = publisher.Close() }()
			notifier = notification.NewQueueNotifier(publisher, cfg.RabbitConfig.Queue, log)
		}
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	guideRepo := repository.NewGormGuideRepository(db)
	placeRepo := repository.NewGormPlaceRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	taskRepo := repository.NewGormReconcileRepository(db)

	// Initialize application services
	authService := application.NewAuthService(userRepo, guideRepo, jwtManager, sessions, directoryCache, log)
	bookingService := application.NewBookingService(bookingRepo, userRepo, guideRepo, placeRepo, taskRepo, notifier, kafkaProducer, log)
	guideService := application.NewGuideService(guideRepo, placeRepo, directoryCache, log)
	placeService := application.NewPlaceService(placeRepo, guideRepo, directoryCache, log)
	directoryService := application.NewDirectoryService(guideRepo, placeRepo, directoryCache, log)
	adminService := application.NewAdminService(userRepo, guideRepo, placeRepo, bookingRepo, taskRepo, authService, directoryCache, log)

	if err := authService.SeedAdmin(ctx, cfg.AdminSeed.Name, cfg.AdminSeed.Email, cfg.AdminSeed.Password); err != nil {
		log.Error("failed to seed admin account", zap.Error(err))
	}

	// Background workers
	reconciler := application.NewReconciler(taskRepo, userRepo, guideRepo, notifier,
		cfg.Reconciler.Interval, cfg.Reconciler.MaxAttempts, cfg.Reconciler.BatchSize, log)
	go reconciler.Run(ctx)

	groupID := cfg.KafkaConfig.GroupPrefix + "tourguide-service"
	identityConsumer := events.NewIdentityEventConsumer(cfg.KafkaConfig.Brokers, groupID, adminService, log)
	defer func() { _ = identityConsumer.Close() }()

	go func() {
		log.Info("starting identity event consumer")
		if err := identityConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("identity event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	if err := validation.RegisterBindings(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit, rdb, log))

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	if rdb != nil {
		healthHandler.AddCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	healthHandler.RegisterRoutes(router)

	// Register routes
	root := &router.RouterGroup
	handler.NewAuthHandler(authService).RegisterRoutes(root, jwtManager, sessions)
	handler.NewNavigationHandler().RegisterRoutes(root, jwtManager, sessions)
	handler.NewDirectoryHandler(directoryService, placeService).RegisterRoutes(root)
	handler.NewGuideHandler(guideService).RegisterRoutes(root, jwtManager, sessions)
	handler.NewBookingHandler(bookingService).RegisterRoutes(root, jwtManager, sessions)
	handler.NewAdminHandler(adminService, placeService, guideService).RegisterRoutes(root, jwtManager, sessions)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Stop the consumer and the reconciler
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
