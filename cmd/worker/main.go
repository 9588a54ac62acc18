package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/vetbook/booking-api/internal/config"
	"github.com/vetbook/booking-api/internal/email"
	"github.com/vetbook/booking-api/internal/repository/postgres"
	notificationService "github.com/vetbook/booking-api/internal/service/notification"
	"github.com/vetbook/booking-api/pkg/logger"
	"github.com/vetbook/booking-api/pkg/messaging/redis"
	"github.com/vetbook/booking-api/pkg/metrics"
	"github.com/vetbook/booking-api/pkg/worker"
)

const metricsPort = 9091

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	notificationRepo := postgres.NewNotificationRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	notificationSvc := notificationService.NewService(notificationRepo, clinicRepo, emailSvc, broker, appLogger)

	dispatcher := worker.NewNotificationDispatcher(
		notificationRepo,
		notificationSvc,
		worker.NotifierConfig{
			BatchSize:    cfg.Notifier.BatchSize,
			PollInterval: cfg.Notifier.PollInterval,
		},
		appLogger,
		metrics.NewMetrics("booking", "notifier"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go dispatcher.Start(ctx)

	// Expose dispatcher metrics for scraping
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(fmt.Sprintf(":%d", metricsPort), nil); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
}
