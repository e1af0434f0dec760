package main

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/restaurant-pos/internal/config"
	"github.com/dmehra2102/restaurant-pos/internal/inventory/application"
	invgrpc "github.com/dmehra2102/restaurant-pos/internal/inventory/infrastructure/grpc"
	invkafka "github.com/dmehra2102/restaurant-pos/internal/inventory/infrastructure/kafka"
	invpg "github.com/dmehra2102/restaurant-pos/internal/inventory/infrastructure/postgres"
	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
	"github.com/dmehra2102/restaurant-pos/pkg/idempotency"
	"github.com/dmehra2102/restaurant-pos/pkg/logging"
	"github.com/dmehra2102/restaurant-pos/pkg/shutdown"
	"github.com/dmehra2102/restaurant-pos/pkg/tracing"
)

const healthEvery = 15 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "stock-alert-worker", cfg.OTelEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := pgdb.Connect(ctx, log, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, cfg.IdempotencyTTL)

	health := invgrpc.NewServer()
	gs, err := invgrpc.Run(cfg.GRPCAddr, health)
	if err != nil {
		log.Error("grpc server failed", "err", err)
		os.Exit(1)
	}
	defer gs.GracefulStop()
	log.Info("grpc health listening", "addr", cfg.GRPCAddr)

	alerts := application.NewAlertService(log, invpg.NewNotificationRepository(pool))
	consumer := invkafka.NewConsumer(log, cfg.KafkaBrokers, cfg.OutboxTopic, cfg.AlertGroup, alerts, idem)

	deps := []invgrpc.Pinger{
		pool,
		invgrpc.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		t := time.NewTicker(healthEvery)
		defer t.Stop()
		for {
			if status := health.Refresh(gctx, deps...); gctx.Err() == nil {
				log.Debug("health refreshed", "status", status.String())
			}
			select {
			case <-gctx.Done():
				health.Shutdown()
				return nil
			case <-t.C:
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error("stock-alert-worker stopped with error", "err", err)
	}
	log.Info("stock-alert-worker shutdown complete")
}
