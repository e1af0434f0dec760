package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
)

type StockLedger struct {
	db pgdb.Querier
}

func NewStockLedger(db pgdb.Querier) *StockLedger {
	return &StockLedger{db: db}
}

// Deduct decrements stock by amount inside its own savepoint, so a failed
// deduction leaves the surrounding transaction usable. Quantity may go
// negative.
func (l *StockLedger) Deduct(ctx context.Context, tenant, itemID string, amount decimal.Decimal) (domain.Level, error) {
	sp, err := l.db.Begin(ctx)
	if err != nil {
		return domain.Level{}, err
	}
	defer func() {
		_ = sp.Rollback(ctx)
	}()

	lvl := domain.Level{ItemID: itemID}
	err = sp.QueryRow(ctx, `UPDATE inventory_items SET quantity = quantity - $3
		WHERE tenant=$1 AND id=$2
		RETURNING name, unit, quantity, min_threshold`, tenant, itemID, amount).
		Scan(&lvl.Name, &lvl.Unit, &lvl.Quantity, &lvl.MinThreshold)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Level{}, fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, itemID)
	}
	if err != nil {
		return domain.Level{}, err
	}
	if err := sp.Commit(ctx); err != nil {
		return domain.Level{}, err
	}
	return lvl, nil
}

type MenuCatalog struct {
	db pgdb.Querier
}

func NewMenuCatalog(db pgdb.Querier) *MenuCatalog {
	return &MenuCatalog{db: db}
}

// Lookup returns the menu items among ids that exist for the tenant, each
// with its recipe. Unknown ids are absent from the result.
func (c *MenuCatalog) Lookup(ctx context.Context, tenant string, ids []string) (map[string]domain.MenuItem, error) {
	out := make(map[string]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := c.db.Query(ctx, `SELECT id, tenant, name, category, price, is_available
		FROM menu_items WHERE tenant=$1 AND id = ANY($2)`, tenant, ids)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.Tenant, &m.Name, &m.Category, &m.Price, &m.Available); err != nil {
			rows.Close()
			return nil, err
		}
		out[m.ID] = m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	found := make([]string, 0, len(out))
	for id := range out {
		found = append(found, id)
	}
	rows, err = c.db.Query(ctx, `SELECT menu_item_id, inventory_item_id, quantity
		FROM menu_item_ingredients WHERE menu_item_id = ANY($1) ORDER BY menu_item_id, position`, found)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var menuID string
		var ing domain.Ingredient
		if err := rows.Scan(&menuID, &ing.InventoryItemID, &ing.Quantity); err != nil {
			return nil, err
		}
		m := out[menuID]
		m.Ingredients = append(m.Ingredients, ing)
		out[menuID] = m
	}
	return out, rows.Err()
}

type NotificationRepository struct {
	db pgdb.Querier
}

func NewNotificationRepository(db pgdb.Querier) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Insert(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO notifications (tenant, title, message, type, related_to, created_at)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		n.Tenant, n.Title, n.Message, n.Type, n.RelatedTo, n.CreatedAt).Scan(&n.ID)
	return n, err
}
