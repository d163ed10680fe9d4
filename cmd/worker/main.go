package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/config"
	"github.com/mpetrov/aviabooking/internal/email"
	"github.com/mpetrov/aviabooking/internal/kafka"
	"github.com/mpetrov/aviabooking/internal/logger"
	"github.com/mpetrov/aviabooking/internal/repository"
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

	flightRepo := repository.NewFlightRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.TicketEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				zapLogger.Warn("decode ticket event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil && ctx.Err() == nil {
			zapLogger.Error("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.FlightSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			deactivated, err := flightRepo.DeactivateDeparted(ctx, time.Now().UTC())
			if err != nil {
				zapLogger.Error("deactivate departed flights", zap.Error(err))
				continue
			}
			if deactivated > 0 {
				zapLogger.Info("deactivated departed flights", zap.Int64("count", deactivated))
			}
		case <-ctx.Done():
			zapLogger.Info("shutting down worker")
			return
		}
	}
}
