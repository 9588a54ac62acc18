package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vetbook/booking-api/internal/config"
	"github.com/vetbook/booking-api/internal/email"
	"github.com/vetbook/booking-api/internal/handler"
	appointmentHandler "github.com/vetbook/booking-api/internal/handler/appointment"
	authHandler "github.com/vetbook/booking-api/internal/handler/auth"
	scheduleHandler "github.com/vetbook/booking-api/internal/handler/schedule"
	"github.com/vetbook/booking-api/internal/middleware"
	"github.com/vetbook/booking-api/internal/repository/postgres"
	"github.com/vetbook/booking-api/internal/router"
	appointmentService "github.com/vetbook/booking-api/internal/service/appointment"
	authService "github.com/vetbook/booking-api/internal/service/auth"
	notificationService "github.com/vetbook/booking-api/internal/service/notification"
	scheduleService "github.com/vetbook/booking-api/internal/service/schedule"
	"github.com/vetbook/booking-api/pkg/auth"
	"github.com/vetbook/booking-api/pkg/logger"
	"github.com/vetbook/booking-api/pkg/messaging/redis"
	"github.com/vetbook/booking-api/pkg/security"
)

func main() {
	// Optional .env for local development
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

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	hoursRepo := postgres.NewOperatingHoursRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	petRepo := postgres.NewPetRepository(db)
	userRepo := postgres.NewUserRepository(db)
	vetRepo := postgres.NewVeterinarianRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Message broker
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

	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	hasher := security.NewBcryptHasher(0)
	notificationSvc := notificationService.NewService(notificationRepo, clinicRepo, emailSvc, broker, appLogger)
	authSvc := authService.NewService(userRepo, clinicRepo, jwtSvc, hasher)
	scheduleSvc := scheduleService.NewService(hoursRepo, appointmentRepo, clinicRepo)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, clinicRepo, petRepo, userRepo, vetRepo, notificationSvc, appLogger,
	)

	// Middleware and handlers
	middleware.RegisterValidators(nil)
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		handler.NewHealthHandler(db),
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "booking_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	if err := broker.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close broker")
	}

	log.Info().Msg("server stopped")
}
