// Package testenv starts the throwaway postgres and kafka instances the
// integration tests run against.
package testenv

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
)

const startupTimeout = 2 * time.Minute

type Env struct {
	PG    *postgres.PostgresContainer
	Kafka *kafka.KafkaContainer
	PGURL string
	KAddr []string
}

// Postgres starts a database with the schema applied and returns a pool on it.
func Postgres(ctx context.Context, log *slog.Logger) (*postgres.PostgresContainer, *pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pos"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, nil, err
	}
	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(context.Background())
		return nil, nil, err
	}
	pool, err := pgdb.Connect(ctx, log, url)
	if err != nil {
		_ = pgC.Terminate(context.Background())
		return nil, nil, err
	}
	if err := pgdb.Migrate(ctx, pool); err != nil {
		pool.Close()
		_ = pgC.Terminate(context.Background())
		return nil, nil, err
	}
	return pgC, pool, nil
}

func Kafka(ctx context.Context) (*kafka.KafkaContainer, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	kafkaC, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("pos-test"),
	)
	if err != nil {
		return nil, nil, err
	}
	brokers, err := kafkaC.Brokers(ctx)
	if err != nil {
		_ = kafkaC.Terminate(context.Background())
		return nil, nil, err
	}
	return kafkaC, brokers, nil
}

// Setup starts both containers.
func Setup(ctx context.Context, log *slog.Logger) (*Env, *pgxpool.Pool, error) {
	pgC, pool, err := Postgres(ctx, log)
	if err != nil {
		return nil, nil, err
	}
	kafkaC, brokers, err := Kafka(ctx)
	if err != nil {
		pool.Close()
		_ = pgC.Terminate(context.Background())
		return nil, nil, err
	}
	url, _ := pgC.ConnectionString(ctx, "sslmode=disable")
	return &Env{PG: pgC, Kafka: kafkaC, PGURL: url, KAddr: brokers}, pool, nil
}

func (e *Env) Teardown(ctx context.Context) {
	if e.Kafka != nil {
		_ = e.Kafka.Terminate(ctx)
	}
	if e.PG != nil {
		_ = e.PG.Terminate(ctx)
	}
}
