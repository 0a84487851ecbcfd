package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rsharma91/aircargo/config"
	"github.com/rsharma91/aircargo/internal/auth"
	"github.com/rsharma91/aircargo/internal/bootstrap"
	"github.com/rsharma91/aircargo/internal/cache"
	"github.com/rsharma91/aircargo/internal/kafka"
	"github.com/rsharma91/aircargo/internal/repository"
	"github.com/rsharma91/aircargo/internal/service/booking"
	"github.com/rsharma91/aircargo/internal/service/routes"
	"github.com/rsharma91/aircargo/internal/service/tracking"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	timelineRepo := repository.NewTimelineRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	authService := auth.NewAuthService(userRepo, tokens)
	routeService := routes.NewRouteService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		routeService,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	trackingService := tracking.NewTrackingService(bookingRepo, timelineRepo, routeService)

	if err := bootstrap.Run(ctx, cfg, bootstrap.Services{
		Auth:     authService,
		Tokens:   tokens,
		Routes:   routeService,
		Bookings: bookingService,
		Tracking: trackingService,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
