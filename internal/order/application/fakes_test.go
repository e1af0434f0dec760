package application

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	customer "github.com/dmehra2102/restaurant-pos/internal/customer/domain"
	inventory "github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
	"github.com/dmehra2102/restaurant-pos/internal/order/domain"
	table "github.com/dmehra2102/restaurant-pos/internal/table/domain"
)

type recordedEvent struct {
	AggregateType string
	AggregateID   string
	Type          string
	Payload       any
}

// memState is an in-memory backing store. memUoW snapshots it before each
// unit of work and restores the snapshot when fn fails.
type memState struct {
	orders    map[string]domain.Order
	tables    map[string]table.Table
	customers map[string]customer.Customer
	stock     map[string]inventory.Item
	menu      map[string]inventory.MenuItem
	events    []recordedEvent

	failStock map[string]error
}

func newMemState() *memState {
	return &memState{
		orders:    map[string]domain.Order{},
		tables:    map[string]table.Table{},
		customers: map[string]customer.Customer{},
		stock:     map[string]inventory.Item{},
		menu:      map[string]inventory.MenuItem{},
		failStock: map[string]error{},
	}
}

func (m *memState) clone() *memState {
	c := newMemState()
	for k, o := range m.orders {
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		c.orders[k] = o
	}
	for k, t := range m.tables {
		c.tables[k] = t
	}
	for k, cu := range m.customers {
		cu.OrderHistory = append([]string(nil), cu.OrderHistory...)
		c.customers[k] = cu
	}
	for k, s := range m.stock {
		c.stock[k] = s
	}
	c.menu = m.menu
	c.failStock = m.failStock
	c.events = append([]recordedEvent(nil), m.events...)
	return c
}

type memUoW struct {
	mu    sync.Mutex
	state *memState
}

func (u *memUoW) Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snapshot := u.state.clone()
	st := u.state
	err := fn(ctx, Stores{
		Orders:    memOrders{st},
		Tables:    memTables{st},
		Customers: memCustomers{st},
		Inventory: memInventory{st},
		Menu:      memMenu{st},
		Events:    memEvents{st},
	})
	if err != nil {
		*u.state = *snapshot
	}
	return err
}

type memOrders struct{ s *memState }

func (r memOrders) Insert(_ context.Context, o domain.Order) error {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	r.s.orders[o.ID] = o
	return nil
}

func (r memOrders) Update(_ context.Context, o domain.Order) error {
	if _, ok := r.s.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	for i := range o.Items {
		o.Items[i].MenuItem = nil
	}
	r.s.orders[o.ID] = o
	return nil
}

func (r memOrders) Get(_ context.Context, tenant, id string) (domain.Order, error) {
	o, ok := r.s.orders[id]
	if !ok || o.Tenant != tenant {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o, nil
}

func (r memOrders) GetForUpdate(ctx context.Context, tenant, id string) (domain.Order, error) {
	return r.Get(ctx, tenant, id)
}

func (r memOrders) List(_ context.Context, tenant string, f ListFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.s.orders {
		if o.Tenant != tenant {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.TableID != "" && o.TableID != f.TableID {
			continue
		}
		if !f.Since.IsZero() && o.CreatedAt.Before(f.Since) {
			continue
		}
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memOrders) Delete(_ context.Context, tenant, id string) error {
	if o, ok := r.s.orders[id]; !ok || o.Tenant != tenant {
		return domain.ErrOrderNotFound
	}
	delete(r.s.orders, id)
	return nil
}

type memTables struct{ s *memState }

func (r memTables) Occupy(_ context.Context, _ string, tableID, orderID string, customerCount int) error {
	t, ok := r.s.tables[tableID]
	if !ok {
		return nil
	}
	t.Status = table.StatusOccupied
	t.CurrentOrder = orderID
	t.CustomerCount = customerCount
	r.s.tables[tableID] = t
	return nil
}

func (r memTables) Release(_ context.Context, _ string, tableID, orderID string) error {
	t, ok := r.s.tables[tableID]
	if !ok || (t.CurrentOrder != "" && t.CurrentOrder != orderID) {
		return nil
	}
	t.Status = table.StatusAvailable
	t.CurrentOrder = ""
	t.CustomerCount = 0
	r.s.tables[tableID] = t
	return nil
}

type memCustomers struct{ s *memState }

func (r memCustomers) Get(_ context.Context, tenant, id string) (customer.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok || c.Tenant != tenant {
		return customer.Customer{}, customer.ErrCustomerNotFound
	}
	return c, nil
}

func (r memCustomers) FindByPhone(_ context.Context, tenant, phone string) (customer.Customer, error) {
	for _, c := range r.s.customers {
		if c.Tenant == tenant && c.Phone == phone {
			return c, nil
		}
	}
	return customer.Customer{}, customer.ErrCustomerNotFound
}

func (r memCustomers) LinkOrder(_ context.Context, _ string, customerID, orderID string) error {
	c, ok := r.s.customers[customerID]
	if !ok {
		return customer.ErrCustomerNotFound
	}
	if !c.HasOrder(orderID) {
		c.OrderHistory = append(c.OrderHistory, orderID)
	}
	r.s.customers[customerID] = c
	return nil
}

func (r memCustomers) ApplyDue(_ context.Context, _ string, customerID string, delta decimal.Decimal) error {
	c, ok := r.s.customers[customerID]
	if !ok {
		return customer.ErrCustomerNotFound
	}
	c.PendingBalance = decimal.Max(decimal.Zero, c.PendingBalance.Add(delta))
	r.s.customers[customerID] = c
	return nil
}

func (r memCustomers) ApplyAdvance(_ context.Context, _ string, customerID string, delta decimal.Decimal) error {
	c, ok := r.s.customers[customerID]
	if !ok {
		return customer.ErrCustomerNotFound
	}
	c.AdvancePayment = c.AdvancePayment.Add(delta)
	r.s.customers[customerID] = c
	return nil
}

type memInventory struct{ s *memState }

func (r memInventory) Deduct(_ context.Context, _ string, itemID string, amount decimal.Decimal) (inventory.Level, error) {
	if err := r.s.failStock[itemID]; err != nil {
		return inventory.Level{}, err
	}
	it, ok := r.s.stock[itemID]
	if !ok {
		return inventory.Level{}, inventory.ErrInventoryItemNotFound
	}
	it.Quantity = it.Quantity.Sub(amount)
	r.s.stock[itemID] = it
	return inventory.Level{ItemID: it.ID, Name: it.Name, Unit: it.Unit, Quantity: it.Quantity, MinThreshold: it.MinThreshold}, nil
}

type memMenu struct{ s *memState }

func (r memMenu) Lookup(_ context.Context, _ string, ids []string) (map[string]inventory.MenuItem, error) {
	out := make(map[string]inventory.MenuItem, len(ids))
	for _, id := range ids {
		if m, ok := r.s.menu[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

type memEvents struct{ s *memState }

func (r memEvents) Append(_ context.Context, aggregateType, aggregateID, eventType string, payload any) error {
	r.s.events = append(r.s.events, recordedEvent{aggregateType, aggregateID, eventType, payload})
	return nil
}
