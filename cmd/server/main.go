package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/analytubeapp-coder/analytube/internal/app"
	"github.com/analytubeapp-coder/analytube/internal/config"
	"github.com/analytubeapp-coder/analytube/internal/handler"
	"github.com/analytubeapp-coder/analytube/internal/middleware"
	"github.com/analytubeapp-coder/analytube/internal/router"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "analytube-api")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	if cfg.BatchEnabled {
		c, err := a.Batch.Schedule(ctx, cfg.BatchCron, time.Hour)
		if err != nil {
			log.Fatal().Err(err).Str("spec", cfg.BatchCron).Msg("invalid batch schedule")
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
		log.Info().Str("spec", cfg.BatchCron).Msg("batch snapshotter scheduled")
	}

	srv := fiber.New(fiber.Config{
		AppName:      "AnalyTube API",
		ServerHeader: "AnalyTube",
		ReadTimeout:  15 * time.Second,
		// The batch trigger is synchronous and paced.
		WriteTimeout: 10 * time.Minute,
	})

	router.Setup(srv, &router.Handlers{
		YouTube: handler.NewYouTubeHandler(a.Channels, a.Snapshots, a.Growth, a.Ranker, cfg.DefaultCPM),
		Channel: handler.NewChannelHandler(a.Channels),
		Cron:    handler.NewCronHandler(a.Batch),
		Health:  handler.NewHealthHandler(a.Pool, a.Cache.Client(), version),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		CronSecret:  cfg.CronSecret,
	})

	if cfg.CronSecret == "" {
		log.Warn().Msg("CRON_SECRET is empty; /api/cron is unauthenticated")
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := srv.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("AnalyTube API starting")
	if err := srv.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true}); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}
