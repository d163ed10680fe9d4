package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/api"
	"github.com/mpetrov/aviabooking/config"
	"github.com/mpetrov/aviabooking/internal/auth"
	"github.com/mpetrov/aviabooking/internal/bootstrap"
	"github.com/mpetrov/aviabooking/internal/cache"
	"github.com/mpetrov/aviabooking/internal/kafka"
	"github.com/mpetrov/aviabooking/internal/logger"
	"github.com/mpetrov/aviabooking/internal/repository"
	"github.com/mpetrov/aviabooking/internal/service/booking"
	"github.com/mpetrov/aviabooking/internal/service/companies"
	"github.com/mpetrov/aviabooking/internal/service/content"
	"github.com/mpetrov/aviabooking/internal/service/flights"
	"github.com/mpetrov/aviabooking/internal/service/stats"
	"github.com/mpetrov/aviabooking/internal/service/users"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zapLogger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Booking.BannersCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.AccessTokenMinutes)*time.Minute)

	flightRepo := repository.NewFlightRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	bannerRepo := repository.NewBannerRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	userService := users.NewUserService(userRepo, tokens, cfg.Auth.BcryptCost, zapLogger)
	flightService := flights.NewFlightService(flightRepo, companyRepo, ticketRepo, redisCache, zapLogger)
	bookingService := booking.NewBookingService(
		ticketRepo,
		flightRepo,
		userRepo,
		producer,
		cfg.Kafka.TicketEventsTopic,
		zapLogger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	companyService := companies.NewCompanyService(companyRepo, userRepo)
	contentService := content.NewContentService(bannerRepo, redisCache, zapLogger)
	statsService := stats.NewStatsService(statsRepo, companyRepo)

	handlers := bootstrap.Handlers{
		Auth:    api.NewAuthHandler(userService),
		Flights: api.NewFlightHandler(flightService),
		Booking: api.NewBookingHandler(bookingService),
		Company: api.NewCompanyHandler(flightService, statsService),
		Admin:   api.NewAdminHandler(userService, companyService, contentService, bookingService, statsService),
		Content: api.NewContentHandler(contentService),
	}

	if err := bootstrap.Run(ctx, cfg, tokens, handlers, zapLogger); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}
}
