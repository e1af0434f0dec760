package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	customerpg "github.com/dmehra2102/restaurant-pos/internal/customer/infrastructure/postgres"
	inventorypg "github.com/dmehra2102/restaurant-pos/internal/inventory/infrastructure/postgres"
	"github.com/dmehra2102/restaurant-pos/internal/order/application"
	tablepg "github.com/dmehra2102/restaurant-pos/internal/table/infrastructure/postgres"
)

// UnitOfWork binds every store of one operation to a single transaction.
type UnitOfWork struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewUnitOfWork(log *slog.Logger, pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{log: log, pool: pool}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s application.Stores) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	stores := application.Stores{
		Orders:    NewRepository(tx),
		Tables:    tablepg.NewRepository(tx),
		Customers: customerpg.NewRepository(tx),
		Inventory: inventorypg.NewStockLedger(tx),
		Menu:      inventorypg.NewMenuCatalog(tx),
		Events:    NewEventLog(tx),
	}
	if err := fn(ctx, stores); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
