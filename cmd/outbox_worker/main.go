package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/minsuk-ha/go-shop-ddd/config"
	"github.com/minsuk-ha/go-shop-ddd/internal/application"
	pginfra "github.com/minsuk-ha/go-shop-ddd/internal/infrastructure/postgres"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

// The outbox worker polls outbox_events for unpublished rows and delivers
// them to RabbitMQ. It is the only process that talks to the broker on the
// publish side, so the API stays available when the broker is down.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-outbox", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventQueue)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer pub.Close()

	svc := application.NewOutboxService(pginfra.NewOutboxRepository(pool), pub, logger, cfg.OutboxBatchSize)

	logger.Infof("outbox worker polling every %s", cfg.OutboxPollInterval)
	ticker := time.NewTicker(cfg.OutboxPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			n, err := svc.ProcessUnpublished(ctx)
			if err != nil {
				logger.WithError(err).Error("outbox batch failed")
				continue
			}
			if n > 0 {
				logger.WithField("published", n).Info("outbox batch published")
			}
		}
	}
}
