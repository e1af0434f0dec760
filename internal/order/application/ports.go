package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/restaurant-pos/internal/access"
	customer "github.com/dmehra2102/restaurant-pos/internal/customer/domain"
	inventory "github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
	"github.com/dmehra2102/restaurant-pos/internal/order/domain"
)

type ListFilter struct {
	Status  domain.Status
	TableID string
	// Since limits the result to orders created at or after it.
	Since time.Time
}

type OrderRepository interface {
	Insert(ctx context.Context, o domain.Order) error
	Update(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, tenant, id string) (domain.Order, error)
	// GetForUpdate locks the order row until the unit of work ends.
	GetForUpdate(ctx context.Context, tenant, id string) (domain.Order, error)
	List(ctx context.Context, tenant string, f ListFilter) ([]domain.Order, error)
	Delete(ctx context.Context, tenant, id string) error
}

// TableRegistry updates are scoped by tenant and table id; a miss is a
// silent no-op.
type TableRegistry interface {
	Occupy(ctx context.Context, tenant, tableID, orderID string, customerCount int) error
	// Release frees the table only while orderID still holds it.
	Release(ctx context.Context, tenant, tableID, orderID string) error
}

type CustomerLedger interface {
	Get(ctx context.Context, tenant, id string) (customer.Customer, error)
	FindByPhone(ctx context.Context, tenant, phone string) (customer.Customer, error)
	// LinkOrder is idempotent.
	LinkOrder(ctx context.Context, tenant, customerID, orderID string) error
	// ApplyDue adds delta to the pending balance, flooring the result at 0.
	ApplyDue(ctx context.Context, tenant, customerID string, delta decimal.Decimal) error
	ApplyAdvance(ctx context.Context, tenant, customerID string, delta decimal.Decimal) error
}

type InventoryLedger interface {
	// Deduct atomically decrements stock; it never rejects for lack of stock.
	Deduct(ctx context.Context, tenant, itemID string, amount decimal.Decimal) (inventory.Level, error)
}

type MenuCatalog interface {
	Lookup(ctx context.Context, tenant string, ids []string) (map[string]inventory.MenuItem, error)
}

type EventLog interface {
	Append(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error
}

// Stores is the set of repositories bound to one unit of work.
type Stores struct {
	Orders    OrderRepository
	Tables    TableRegistry
	Customers CustomerLedger
	Inventory InventoryLedger
	Menu      MenuCatalog
	Events    EventLog
}

// UnitOfWork runs fn so that every write through s commits or rolls back
// together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

type Authorizer interface {
	Authorize(role access.Role, action access.Action) error
	AuthorizeStatus(role access.Role, status string) error
}
