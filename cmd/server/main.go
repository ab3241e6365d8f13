package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/tubepulse/tubepulse-go/internal/config"
	"github.com/tubepulse/tubepulse-go/internal/db"
	"github.com/tubepulse/tubepulse-go/internal/handler"
	"github.com/tubepulse/tubepulse-go/internal/middleware"
	"github.com/tubepulse/tubepulse-go/internal/repository"
	"github.com/tubepulse/tubepulse-go/internal/router"
	"github.com/tubepulse/tubepulse-go/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "tubepulse-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	channelRepo := repository.NewChannelRepo(pool)
	orgRepo := repository.NewOrgRepo(pool)
	statsRepo := repository.NewStatsRepo(pool)

	analyticsSvc := service.NewAnalyticsService(statsRepo, channelRepo, orgRepo, cache)
	exportSvc := service.NewExportService()

	worker := service.NewRefreshWorker(pool, analyticsSvc, cfg.WarmupInterval)
	go worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "TubePulse API",
		ServerHeader: "TubePulse",
	})

	router.Setup(app, &router.Handlers{
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Export:    handler.NewExportHandler(analyticsSvc, exportSvc),
		Health:    handler.NewHealthHandler(pool, cache.Client()),
	}, cfg.CORSOrigins)

	go func() {
		log.Printf("TubePulse Go backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
