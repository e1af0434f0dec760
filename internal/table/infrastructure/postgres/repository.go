package postgres

import (
	"context"

	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
	"github.com/dmehra2102/restaurant-pos/internal/table/domain"
)

type Repository struct {
	db pgdb.Querier
}

func NewRepository(db pgdb.Querier) *Repository {
	return &Repository{db: db}
}

// Occupy matches on tenant and table id. An unknown table is a no-op.
func (r *Repository) Occupy(ctx context.Context, tenant, tableID, orderID string, customerCount int) error {
	_, err := r.db.Exec(ctx, `UPDATE restaurant_tables
		SET status=$3, current_order=$4, customer_count=$5, updated_at=now()
		WHERE tenant=$1 AND table_id=$2`,
		tenant, tableID, domain.StatusOccupied, orderID, customerCount)
	return err
}

// Release frees the table unless another order has taken it since. An
// unknown table is a no-op.
func (r *Repository) Release(ctx context.Context, tenant, tableID, orderID string) error {
	_, err := r.db.Exec(ctx, `UPDATE restaurant_tables
		SET status=$3, current_order='', customer_count=0, updated_at=now()
		WHERE tenant=$1 AND table_id=$2 AND current_order IN ($4, '')`,
		tenant, tableID, domain.StatusAvailable, orderID)
	return err
}

func (r *Repository) List(ctx context.Context, tenant string) ([]domain.Table, error) {
	rows, err := r.db.Query(ctx, `SELECT tenant, table_id, capacity, status, current_order, customer_count, updated_at
		FROM restaurant_tables WHERE tenant=$1 ORDER BY table_id`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.Tenant, &t.TableID, &t.Capacity, &t.Status, &t.CurrentOrder, &t.CustomerCount, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Upsert registers a table or changes its capacity. A new table starts
// available; occupancy of an existing one is left alone.
func (r *Repository) Upsert(ctx context.Context, t domain.Table) (domain.Table, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO restaurant_tables (tenant, table_id, capacity, status, updated_at)
		VALUES ($1,$2,$3,$4,now())
		ON CONFLICT (tenant, table_id) DO UPDATE SET capacity=$3, updated_at=now()
		RETURNING tenant, table_id, capacity, status, current_order, customer_count, updated_at`,
		t.Tenant, t.TableID, t.Capacity, domain.StatusAvailable).
		Scan(&t.Tenant, &t.TableID, &t.Capacity, &t.Status, &t.CurrentOrder, &t.CustomerCount, &t.UpdatedAt)
	return t, err
}
