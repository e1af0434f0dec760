package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmehra2102/restaurant-pos/internal/order/application"
	"github.com/dmehra2102/restaurant-pos/internal/order/domain"
	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
)

const orderColumns = `id, tenant, created_by, order_type, previous_order_type, table_id, table_label, customer_count,
	subtotal, discount_percent, discount_amount, tax_rate, tax_amount, service_charge_rate, service_charge_amount,
	total_amount, payment_mode, payment_status, paid_amount, due_amount, status,
	customer_id, customer_name, customer_phone, created_at, updated_at`

type Repository struct {
	db pgdb.Querier
}

func NewRepository(db pgdb.Querier) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, o domain.Order) error {
	_, err := r.db.Exec(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)`,
		o.ID, o.Tenant, o.CreatedBy, o.Type, o.PreviousType, o.TableID, o.TableLabel, o.CustomerCount,
		o.Subtotal, o.DiscountPercent, o.DiscountAmount, o.TaxRate, o.TaxAmount, o.ServiceChargeRate, o.ServiceChargeAmount,
		o.TotalAmount, o.PaymentMode, o.PaymentStatus, o.PaidAmount, o.DueAmount, o.Status,
		o.CustomerID, o.CustomerName, o.CustomerPhone, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	return r.writeItems(ctx, o)
}

// Update rewrites the whole order document, items included.
func (r *Repository) Update(ctx context.Context, o domain.Order) error {
	ct, err := r.db.Exec(ctx, `UPDATE orders SET
			order_type=$3, previous_order_type=$4, table_id=$5, table_label=$6, customer_count=$7,
			subtotal=$8, discount_percent=$9, discount_amount=$10, tax_rate=$11, tax_amount=$12,
			service_charge_rate=$13, service_charge_amount=$14, total_amount=$15,
			payment_mode=$16, payment_status=$17, paid_amount=$18, due_amount=$19, status=$20,
			customer_id=$21, customer_name=$22, customer_phone=$23, updated_at=$24
		WHERE tenant=$1 AND id=$2`,
		o.Tenant, o.ID, o.Type, o.PreviousType, o.TableID, o.TableLabel, o.CustomerCount,
		o.Subtotal, o.DiscountPercent, o.DiscountAmount, o.TaxRate, o.TaxAmount,
		o.ServiceChargeRate, o.ServiceChargeAmount, o.TotalAmount,
		o.PaymentMode, o.PaymentStatus, o.PaidAmount, o.DueAmount, o.Status,
		o.CustomerID, o.CustomerName, o.CustomerPhone, o.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return err
	}
	return r.writeItems(ctx, o)
}

func (r *Repository) writeItems(ctx context.Context, o domain.Order) error {
	if len(o.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, id, position, menu_item_id, quantity, price, notes, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			o.ID, item.ID, i, item.MenuItemID, item.Quantity, item.Price, item.Notes, item.Status)
	}
	return r.db.SendBatch(ctx, batch).Close()
}

func (r *Repository) Get(ctx context.Context, tenant, id string) (domain.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant=$1 AND id=$2`, tenant, id)
}

func (r *Repository) GetForUpdate(ctx context.Context, tenant, id string) (domain.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant=$1 AND id=$2 FOR UPDATE`, tenant, id)
}

func (r *Repository) get(ctx context.Context, query, tenant, id string) (domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, query, tenant, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// List returns the tenant's orders newest first.
func (r *Repository) List(ctx context.Context, tenant string, f application.ListFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant=$1`
	args := []any{tenant}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.TableID != "" {
		args = append(args, f.TableID)
		query += fmt.Sprintf(" AND table_id=$%d", len(args))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *Repository) items(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `SELECT order_id, id, menu_item_id, quantity, price, notes, status
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ID, &it.MenuItemID, &it.Quantity, &it.Price, &it.Notes, &it.Status); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, tenant, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM orders WHERE tenant=$1 AND id=$2`, tenant, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Tenant, &o.CreatedBy, &o.Type, &o.PreviousType, &o.TableID, &o.TableLabel, &o.CustomerCount,
		&o.Subtotal, &o.DiscountPercent, &o.DiscountAmount, &o.TaxRate, &o.TaxAmount, &o.ServiceChargeRate, &o.ServiceChargeAmount,
		&o.TotalAmount, &o.PaymentMode, &o.PaymentStatus, &o.PaidAmount, &o.DueAmount, &o.Status,
		&o.CustomerID, &o.CustomerName, &o.CustomerPhone, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
