package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/restaurant-pos/internal/customer/domain"
	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
)

const customerColumns = `id, tenant, created_by, name, phone, email, address, notes,
	pending_balance, advance_payment, order_history, created_at, updated_at`

type Repository struct {
	db pgdb.Querier
}

func NewRepository(db pgdb.Querier) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, tenant, id string) (domain.Customer, error) {
	return r.one(ctx, `SELECT `+customerColumns+` FROM customers WHERE tenant=$1 AND id=$2`, tenant, id)
}

func (r *Repository) FindByPhone(ctx context.Context, tenant, phone string) (domain.Customer, error) {
	return r.one(ctx, `SELECT `+customerColumns+` FROM customers WHERE tenant=$1 AND phone=$2`, tenant, phone)
}

func (r *Repository) one(ctx context.Context, query string, args ...any) (domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, err
}

// LinkOrder appends orderID to the history unless it is already there.
func (r *Repository) LinkOrder(ctx context.Context, tenant, customerID, orderID string) error {
	ct, err := r.db.Exec(ctx, `UPDATE customers
		SET order_history = CASE WHEN $3 = ANY(order_history) THEN order_history ELSE array_append(order_history, $3) END,
		    updated_at = now()
		WHERE tenant=$1 AND id=$2`, tenant, customerID, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *Repository) ApplyDue(ctx context.Context, tenant, customerID string, delta decimal.Decimal) error {
	return r.apply(ctx, `UPDATE customers SET pending_balance = GREATEST(0, pending_balance + $3), updated_at = now()
		WHERE tenant=$1 AND id=$2`, tenant, customerID, delta)
}

func (r *Repository) ApplyAdvance(ctx context.Context, tenant, customerID string, delta decimal.Decimal) error {
	return r.apply(ctx, `UPDATE customers SET advance_payment = advance_payment + $3, updated_at = now()
		WHERE tenant=$1 AND id=$2`, tenant, customerID, delta)
}

func (r *Repository) apply(ctx context.Context, query, tenant, customerID string, delta decimal.Decimal) error {
	ct, err := r.db.Exec(ctx, query, tenant, customerID, delta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Upsert creates the customer for (tenant, phone) or merges the non-empty
// contact fields into the existing one.
func (r *Repository) Upsert(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `INSERT INTO customers (id, tenant, created_by, name, phone, email, address, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		ON CONFLICT (tenant, phone) DO UPDATE SET
			name    = COALESCE(NULLIF(EXCLUDED.name, ''), customers.name),
			email   = COALESCE(NULLIF(EXCLUDED.email, ''), customers.email),
			address = COALESCE(NULLIF(EXCLUDED.address, ''), customers.address),
			notes   = COALESCE(NULLIF(EXCLUDED.notes, ''), customers.notes),
			updated_at = EXCLUDED.updated_at
		RETURNING `+customerColumns,
		c.ID, c.Tenant, c.CreatedBy, c.Name, c.Phone, c.Email, c.Address, c.Notes, c.UpdatedAt))
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Tenant, &c.CreatedBy, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes,
		&c.PendingBalance, &c.AdvancePayment, &c.OrderHistory, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
