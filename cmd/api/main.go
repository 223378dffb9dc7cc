package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/masjidhub/prayer-engine/internal/cache"
	"github.com/masjidhub/prayer-engine/internal/channel"
	"github.com/masjidhub/prayer-engine/internal/config"
	"github.com/masjidhub/prayer-engine/internal/handler"
	"github.com/masjidhub/prayer-engine/internal/infra/postgresql"
	"github.com/masjidhub/prayer-engine/internal/infra/postgresql/migrations"
	infraredis "github.com/masjidhub/prayer-engine/internal/infra/redis"
	"github.com/masjidhub/prayer-engine/internal/observability"
	"github.com/masjidhub/prayer-engine/internal/provider"
	"github.com/masjidhub/prayer-engine/internal/repository"
	"github.com/masjidhub/prayer-engine/internal/service"
	"github.com/masjidhub/prayer-engine/internal/transport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	metrics := observability.NewMetrics()

	store := cache.New(time.Duration(cfg.CacheTTLHours) * time.Hour)

	aladhanClient, err := provider.NewAladhanClient(cfg.PrayerAPIBaseURL)
	if err != nil {
		logger.Fatal("timetable client initialization failed", zap.Error(err))
	}

	timetableService, err := service.NewTimetableService(aladhanClient, store, logger)
	if err != nil {
		logger.Fatal("timetable service initialization failed", zap.Error(err))
	}
	timetableService.WithMetrics(metrics)

	fcmChannel, err := channel.NewFCMChannel(cfg.FCMEndpoint, cfg.FCMServerKey)
	if err != nil {
		logger.Fatal("fcm channel initialization failed", zap.Error(err))
	}
	oneSignalChannel, err := channel.NewOneSignalChannel(cfg.OneSignalURL, cfg.OneSignalAppID, cfg.OneSignalAPIKey)
	if err != nil {
		logger.Fatal("onesignal channel initialization failed", zap.Error(err))
	}

	rateLimiter, err := infraredis.NewPushRateLimiter(rdb, cfg.RateLimitPerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	// FCM before OneSignal so dual-token users get outcomes in that order.
	notificationService, err := service.NewNotificationService(
		[]channel.Channel{fcmChannel, oneSignalChannel},
		rateLimiter,
		cfg.BulkConcurrency,
		logger,
	)
	if err != nil {
		logger.Fatal("notification service initialization failed", zap.Error(err))
	}
	notificationService.WithMetrics(metrics)

	prefRepo := repository.NewGormPreferenceRepo(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	if err := handler.RegisterTimetableRoutes(app, timetableService); err != nil {
		logger.Fatal("timetable route registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(app, notificationService, prefRepo); err != nil {
		logger.Fatal("notification route registration failed", zap.Error(err))
	}

	go func() {
		logger.Info("prayer-engine api started", zap.Int("port", cfg.APIPort))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			logger.Fatal("api listener failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
