package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/restaurant-pos/internal/access"
	"github.com/dmehra2102/restaurant-pos/internal/config"
	customerapp "github.com/dmehra2102/restaurant-pos/internal/customer/application"
	customerpg "github.com/dmehra2102/restaurant-pos/internal/customer/infrastructure/postgres"
	"github.com/dmehra2102/restaurant-pos/internal/order/application"
	orderhttp "github.com/dmehra2102/restaurant-pos/internal/order/infrastructure/http"
	orderkafka "github.com/dmehra2102/restaurant-pos/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/restaurant-pos/internal/order/infrastructure/postgres"
	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
	tableapp "github.com/dmehra2102/restaurant-pos/internal/table/application"
	tablepg "github.com/dmehra2102/restaurant-pos/internal/table/infrastructure/postgres"
	"github.com/dmehra2102/restaurant-pos/pkg/idempotency"
	"github.com/dmehra2102/restaurant-pos/pkg/logging"
	"github.com/dmehra2102/restaurant-pos/pkg/outbox"
	"github.com/dmehra2102/restaurant-pos/pkg/shutdown"
	"github.com/dmehra2102/restaurant-pos/pkg/tracing"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)
	if err := cfg.RequireAuth(); err != nil {
		log.Error("config invalid", "err", err)
		os.Exit(1)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "pos-api", cfg.OTelEndpoint, log)
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
	if cfg.Migrate {
		if err := pgdb.Migrate(ctx, pool); err != nil {
			log.Error("migration failed", "err", err)
			os.Exit(1)
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, cfg.IdempotencyTTL)

	writer := orderkafka.NewWriter(log, cfg.KafkaBrokers)
	defer writer.Close()
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, orderpg.NewOutboxStore(log, pool), dispatch, "pos-api-relay")

	policy := access.NewPolicy()
	orders := application.NewService(log, orderpg.NewUnitOfWork(log, pool), policy)
	tables := tableapp.NewService(log, tablepg.NewRepository(pool), policy)
	customers := customerapp.NewService(log, customerpg.NewRepository(pool), policy)

	handler := orderhttp.NewHandler(log, orderhttp.Deps{
		Orders:      orders,
		Tables:      tables,
		Customers:   customers,
		Auth:        orderhttp.NewAuthenticator(cfg.JWTSecret),
		Idempotency: idem,
		Ready: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
			return rdb.Ping(ctx).Err()
		},
	})
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relay.Run(gctx)
	})
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("pos-api stopped with error", "err", err)
	}
	log.Info("pos-api shutdown complete")
}
