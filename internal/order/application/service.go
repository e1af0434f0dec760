package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/restaurant-pos/internal/access"
	customer "github.com/dmehra2102/restaurant-pos/internal/customer/domain"
	inventory "github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
	"github.com/dmehra2102/restaurant-pos/internal/order/domain"
	payment "github.com/dmehra2102/restaurant-pos/internal/payment/domain"
)

const (
	aggregateOrder     = "order"
	aggregateInventory = "inventory"
)

type Service struct {
	log   *slog.Logger
	uow   UnitOfWork
	authz Authorizer
	now   func() time.Time
	newID func() string
}

func NewService(log *slog.Logger, uow UnitOfWork, authz Authorizer) *Service {
	return &Service{
		log:   log,
		uow:   uow,
		authz: authz,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (s *Service) CreateOrder(ctx context.Context, c access.Caller, in CreateOrderInput) (domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionCreateOrder); err != nil {
		return domain.Order{}, err
	}
	if err := validateCreate(c, &in); err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		menu, err := st.Menu.Lookup(ctx, c.Tenant, menuIDs(in.Items))
		if err != nil {
			return fmt.Errorf("menu lookup: %w", err)
		}

		items := make([]domain.OrderItem, 0, len(in.Items))
		for n, line := range in.Items {
			price, err := linePrice(n, line, menu)
			if err != nil {
				return err
			}
			items = append(items, domain.OrderItem{
				ID:         s.newID(),
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				Price:      price,
				Notes:      line.Notes,
				Status:     domain.ItemQueued,
			})
		}

		var fin domain.Financials
		in.FinancialsInput.applyTo(&fin)
		o := domain.NewOrder(s.newID(), c.Tenant, c.UserID, in.OrderType, items, fin, in.TotalAmount, s.now())
		o.CustomerName = in.CustomerName
		o.CustomerPhone = in.CustomerPhone
		o.CustomerCount = in.CustomerCount
		if o.IsDineIn() {
			o.TableID = in.TableID
			o.TableLabel = in.TableLabel
		}

		linked, found, err := s.resolveCustomer(ctx, st, c.Tenant, in.CustomerID, in.CustomerPhone)
		if err != nil {
			return err
		}
		if found {
			o.CustomerID = linked.ID
		}

		if err := st.Orders.Insert(ctx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if found {
			if err := st.Customers.LinkOrder(ctx, c.Tenant, linked.ID, o.ID); err != nil {
				return fmt.Errorf("link customer: %w", err)
			}
		}

		if err := s.deductStock(ctx, st, o, menu); err != nil {
			return err
		}

		if o.IsDineIn() {
			if err := st.Tables.Occupy(ctx, c.Tenant, o.TableID, o.ID, o.CustomerCount); err != nil {
				return fmt.Errorf("occupy table: %w", err)
			}
		}

		if err := st.Events.Append(ctx, aggregateOrder, o.ID, domain.EventOrderCreated, domain.OrderCreated{Order: o}); err != nil {
			return err
		}

		expand(&o, menu)
		out = o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order created", "order_id", out.ID, "tenant", out.Tenant, "type", out.Type, "table_id", out.TableID, "total", out.TotalAmount.String())
	return out, nil
}

// deductStock consumes each line's recipe. A failed ingredient is logged
// and skipped; it never aborts the order.
func (s *Service) deductStock(ctx context.Context, st Stores, o domain.Order, menu map[string]inventory.MenuItem) error {
	for _, it := range o.Items {
		m, ok := menu[it.MenuItemID]
		if !ok {
			continue
		}
		for _, ing := range m.Consumption(it.Quantity) {
			level, err := st.Inventory.Deduct(ctx, o.Tenant, ing.InventoryItemID, ing.Quantity)
			if err != nil {
				s.log.Warn("inventory deduction skipped",
					"order_id", o.ID, "menu_item", m.ID, "inventory_item", ing.InventoryItemID, "err", err)
				continue
			}
			ev := inventory.InventoryDeducted{
				Tenant:          o.Tenant,
				OrderID:         o.ID,
				InventoryItemID: level.ItemID,
				Name:            level.Name,
				Unit:            level.Unit,
				Amount:          ing.Quantity,
				QuantityAfter:   level.Quantity,
				MinThreshold:    level.MinThreshold,
			}
			if err := st.Events.Append(ctx, aggregateInventory, level.ItemID, inventory.EventInventoryDeducted, ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) resolveCustomer(ctx context.Context, st Stores, tenant, id, phone string) (customer.Customer, bool, error) {
	if id != "" {
		cust, err := st.Customers.Get(ctx, tenant, id)
		if err == nil {
			return cust, true, nil
		}
		if !errors.Is(err, customer.ErrCustomerNotFound) {
			return customer.Customer{}, false, fmt.Errorf("customer lookup: %w", err)
		}
	}
	if phone != "" {
		cust, err := st.Customers.FindByPhone(ctx, tenant, phone)
		if err == nil {
			return cust, true, nil
		}
		if !errors.Is(err, customer.ErrCustomerNotFound) {
			return customer.Customer{}, false, fmt.Errorf("customer lookup: %w", err)
		}
	}
	return customer.Customer{}, false, nil
}

func (s *Service) ListOrders(ctx context.Context, c access.Caller, f ListFilter) ([]domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionReadOrders); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, f.Status)
	}

	var out []domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		orders, err := st.Orders.List(ctx, c.Tenant, f)
		if err != nil {
			return err
		}
		menu, err := st.Menu.Lookup(ctx, c.Tenant, orderMenuIDs(orders...))
		if err != nil {
			return fmt.Errorf("menu lookup: %w", err)
		}
		for i := range orders {
			expand(&orders[i], menu)
		}
		out = orders
		return nil
	})
	return out, err
}

// DailyStats summarises the tenant's orders created since the start of the
// given day, in the day's location.
func (s *Service) DailyStats(ctx context.Context, c access.Caller, day time.Time) (domain.DailyStats, error) {
	if err := s.authz.Authorize(c.Role, access.ActionViewStats); err != nil {
		return domain.DailyStats{}, err
	}
	if day.IsZero() {
		day = s.now()
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var stats domain.DailyStats
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		orders, err := st.Orders.List(ctx, c.Tenant, ListFilter{Since: start})
		if err != nil {
			return err
		}
		stats = domain.Summarize(orders)
		return nil
	})
	return stats, err
}

func (s *Service) GetOrder(ctx context.Context, c access.Caller, id string) (domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionReadOrders); err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		o, err := st.Orders.Get(ctx, c.Tenant, id)
		if err != nil {
			return err
		}
		out, err = s.expanded(ctx, st, o)
		return err
	})
	return out, err
}

// UpdateOrder merges an item-list edit and any order-type or table change.
func (s *Service) UpdateOrder(ctx context.Context, c access.Caller, id string, in UpdateOrderInput) (domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionEditOrder); err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		o, err := st.Orders.GetForUpdate(ctx, c.Tenant, id)
		if err != nil {
			return err
		}

		if in.Items != nil {
			lines, err := s.itemLines(ctx, st, c.Tenant, o, in.Items)
			if err != nil {
				return err
			}
			merged, err := domain.MergeItems(o.Items, lines, s.newID)
			if err != nil {
				return err
			}
			o.Items = merged
			in.FinancialsInput.applyTo(&o.Financials)
			if in.TotalAmount != nil {
				o.TotalAmount = *in.TotalAmount
			} else {
				o.TotalAmount = o.ItemsTotal()
			}
			o.Reopen()
		}
		prevDue := o.DueAmount
		rebalanced := payment.Rebalance(o.Ledger())
		o.ApplyLedger(rebalanced.Ledger)

		if in.CustomerName != nil {
			o.CustomerName = *in.CustomerName
		}
		if in.CustomerPhone != nil {
			o.CustomerPhone = *in.CustomerPhone
		}

		change, err := o.Retarget(in.OrderType, in.TableID, in.TableLabel)
		if err != nil {
			return err
		}
		if in.CustomerCount > 0 {
			o.CustomerCount = in.CustomerCount
		}
		o.UpdatedAt = s.now()

		if err := st.Orders.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if err := s.shiftCustomerBalance(ctx, st, o, o.DueAmount.Sub(prevDue), rebalanced.Excess); err != nil {
			return err
		}
		if change.Release != "" {
			if err := st.Tables.Release(ctx, c.Tenant, change.Release, o.ID); err != nil {
				return fmt.Errorf("release table: %w", err)
			}
		}
		if change.Occupy != "" {
			if err := st.Tables.Occupy(ctx, c.Tenant, change.Occupy, o.ID, o.CustomerCount); err != nil {
				return fmt.Errorf("occupy table: %w", err)
			}
		}

		ev := domain.OrderUpdated{Order: o, ReleasedFrom: change.Release, OccupiedTo: change.Occupy}
		if err := st.Events.Append(ctx, aggregateOrder, o.ID, domain.EventOrderUpdated, ev); err != nil {
			return err
		}
		out, err = s.expanded(ctx, st, o)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order updated", "order_id", out.ID, "status", out.Status, "items", len(out.Items), "total", out.TotalAmount.String())
	return out, nil
}

// shiftCustomerBalance moves the linked customer's pending balance by
// dueDelta and credits excess to their advance.
func (s *Service) shiftCustomerBalance(ctx context.Context, st Stores, o domain.Order, dueDelta, excess decimal.Decimal) error {
	if o.CustomerID == "" {
		return nil
	}
	if !dueDelta.IsZero() {
		if err := st.Customers.ApplyDue(ctx, o.Tenant, o.CustomerID, dueDelta); err != nil {
			return fmt.Errorf("apply due: %w", err)
		}
	}
	if excess.IsPositive() {
		if err := st.Customers.ApplyAdvance(ctx, o.Tenant, o.CustomerID, excess); err != nil {
			return fmt.Errorf("apply advance: %w", err)
		}
	}
	return nil
}

// itemLines turns edit input into merge lines, pricing new lines from the
// catalog when the caller left the price out.
func (s *Service) itemLines(ctx context.Context, st Stores, tenant string, o domain.Order, in []LineInput) ([]domain.ItemLine, error) {
	var unpriced []string
	for _, l := range in {
		if _, exists := o.Item(l.ID); !exists && l.Price == nil && l.MenuItemID != "" {
			unpriced = append(unpriced, l.MenuItemID)
		}
	}
	var menu map[string]inventory.MenuItem
	if len(unpriced) > 0 {
		var err error
		if menu, err = st.Menu.Lookup(ctx, tenant, unpriced); err != nil {
			return nil, fmt.Errorf("menu lookup: %w", err)
		}
	}

	lines := make([]domain.ItemLine, 0, len(in))
	for _, l := range in {
		line := domain.ItemLine{ID: l.ID, MenuItemID: l.MenuItemID, Quantity: l.Quantity, Price: l.Price, Notes: l.Notes}
		if _, exists := o.Item(l.ID); !exists && line.Price == nil {
			if m, ok := menu[l.MenuItemID]; ok {
				p := m.Price
				line.Price = &p
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ChangeStatus sets the order status directly and pushes lagging items
// forward to match. Completing or cancelling frees the table unless the
// caller asks to keep it.
func (s *Service) ChangeStatus(ctx context.Context, c access.Caller, id string, in ChangeStatusInput) (domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionChangeStatus); err != nil {
		return domain.Order{}, err
	}
	if !in.Status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, in.Status)
	}
	if err := s.authz.AuthorizeStatus(c.Role, string(in.Status)); err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	var released bool
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		o, err := st.Orders.GetForUpdate(ctx, c.Tenant, id)
		if err != nil {
			return err
		}

		from := o.Status
		o.Status = in.Status
		domain.CascadeStatus(o.Items, in.Status)
		o.UpdatedAt = s.now()
		if err := st.Orders.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if in.Status.Closing() && o.TableID != "" && domain.ReleaseDecision(in.FreeTable, in.KeepTableOccupied, true) {
			if err := st.Tables.Release(ctx, c.Tenant, o.TableID, o.ID); err != nil {
				return fmt.Errorf("release table: %w", err)
			}
			released = true
		}

		ev := domain.OrderStatusChanged{OrderID: o.ID, Tenant: o.Tenant, From: from, To: o.Status, TableRelease: released}
		if err := st.Events.Append(ctx, aggregateOrder, o.ID, domain.EventOrderStatusChanged, ev); err != nil {
			return err
		}
		out, err = s.expanded(ctx, st, o)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order status changed", "order_id", out.ID, "status", out.Status, "role", c.Role, "table_released", released)
	return out, nil
}

// ChangeItemStatus moves one item forward and re-derives the order status
// from all of its items.
func (s *Service) ChangeItemStatus(ctx context.Context, c access.Caller, orderID, itemID string, status domain.ItemStatus) (domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionChangeItemStatus); err != nil {
		return domain.Order{}, err
	}
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown item status %q", domain.ErrValidation, status)
	}

	var out domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		o, err := st.Orders.GetForUpdate(ctx, c.Tenant, orderID)
		if err != nil {
			return err
		}
		item, ok := o.Item(itemID)
		if !ok {
			return domain.ErrItemNotFound
		}
		if err := domain.CheckItemTransition(item.Status, status); err != nil {
			return err
		}

		from := item.Status
		item.Status = status
		o.Status = domain.DeriveStatus(o.Items, o.Status)
		o.UpdatedAt = s.now()
		if err := st.Orders.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		ev := domain.ItemStatusChanged{OrderID: o.ID, Tenant: o.Tenant, ItemID: itemID, From: from, To: status, OrderStatus: o.Status}
		if err := st.Events.Append(ctx, aggregateOrder, o.ID, domain.EventItemStatusChanged, ev); err != nil {
			return err
		}
		out, err = s.expanded(ctx, st, o)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("item status changed", "order_id", out.ID, "item_id", itemID, "item_status", status, "order_status", out.Status)
	return out, nil
}

// Settle records a full settlement. Any excess becomes advance credit of
// the linked customer and the resulting due is added to their pending
// balance. The table is kept unless completion or a release was asked for.
func (s *Service) Settle(ctx context.Context, c access.Caller, id string, in SettleInput) (domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionSettle); err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		o, err := st.Orders.GetForUpdate(ctx, c.Tenant, id)
		if err != nil {
			return err
		}

		settlement, err := payment.Settle(o.Ledger(), in.PaymentMode, in.PaidAmount)
		if err != nil {
			return paymentErr(err)
		}

		customerID := o.CustomerID
		if in.CustomerID != "" {
			cust, err := st.Customers.Get(ctx, c.Tenant, in.CustomerID)
			if err != nil {
				if errors.Is(err, customer.ErrCustomerNotFound) {
					return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
				}
				return fmt.Errorf("customer lookup: %w", err)
			}
			customerID = cust.ID
		}

		prevCustomer, prevDue := o.CustomerID, o.DueAmount
		o.ApplyLedger(settlement.Ledger)
		o.CustomerID = customerID
		if in.MarkCompleted {
			o.Status = domain.StatusCompleted
		}
		o.UpdatedAt = s.now()
		if err := st.Orders.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if customerID != "" {
			if err := st.Customers.LinkOrder(ctx, c.Tenant, customerID, o.ID); err != nil {
				return fmt.Errorf("link customer: %w", err)
			}
			if settlement.Excess.IsPositive() {
				if err := st.Customers.ApplyAdvance(ctx, c.Tenant, customerID, settlement.Excess); err != nil {
					return fmt.Errorf("apply advance: %w", err)
				}
			}
			delta := o.DueAmount
			if prevCustomer == customerID {
				delta = o.DueAmount.Sub(prevDue)
			}
			if !delta.IsZero() {
				if err := st.Customers.ApplyDue(ctx, c.Tenant, customerID, delta); err != nil {
					return fmt.Errorf("apply due: %w", err)
				}
			}
		}
		// The previous customer no longer owes this order's due.
		if prevCustomer != "" && prevCustomer != customerID && prevDue.IsPositive() {
			if err := st.Customers.ApplyDue(ctx, c.Tenant, prevCustomer, prevDue.Neg()); err != nil {
				return fmt.Errorf("reverse previous due: %w", err)
			}
		}

		if o.TableID != "" && domain.ReleaseDecision(in.FreeTable, in.KeepTableOccupied, in.MarkCompleted) {
			if err := st.Tables.Release(ctx, c.Tenant, o.TableID, o.ID); err != nil {
				return fmt.Errorf("release table: %w", err)
			}
		}

		ev := payment.PaymentSettled{
			OrderID:    o.ID,
			Tenant:     o.Tenant,
			Mode:       o.PaymentMode,
			Status:     o.PaymentStatus,
			Paid:       o.PaidAmount,
			Due:        o.DueAmount,
			Excess:     settlement.Excess,
			CustomerID: customerID,
		}
		if err := st.Events.Append(ctx, aggregateOrder, o.ID, domain.EventPaymentSettled, ev); err != nil {
			return err
		}
		out, err = s.expanded(ctx, st, o)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order settled", "order_id", out.ID, "mode", out.PaymentMode, "payment_status", out.PaymentStatus,
		"paid", out.PaidAmount.String(), "due", out.DueAmount.String())
	return out, nil
}

// SettleDue applies a partial payment against the order's due balance and
// lowers the linked customer's pending balance by the same amount.
func (s *Service) SettleDue(ctx context.Context, c access.Caller, id string, in SettleDueInput) (domain.Order, error) {
	if err := s.authz.Authorize(c.Role, access.ActionSettle); err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		o, err := st.Orders.GetForUpdate(ctx, c.Tenant, id)
		if err != nil {
			return err
		}

		ledger, err := payment.SettleDue(o.Ledger(), in.SettledAmount, in.PaymentMode)
		if err != nil {
			return paymentErr(err)
		}
		o.ApplyLedger(ledger)
		o.UpdatedAt = s.now()
		if err := st.Orders.Update(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if o.CustomerID != "" {
			if err := st.Customers.ApplyDue(ctx, c.Tenant, o.CustomerID, in.SettledAmount.Neg()); err != nil {
				return fmt.Errorf("apply due: %w", err)
			}
		}

		ev := payment.DueSettled{
			OrderID:    o.ID,
			Tenant:     o.Tenant,
			Amount:     in.SettledAmount,
			Mode:       o.PaymentMode,
			Status:     o.PaymentStatus,
			Paid:       o.PaidAmount,
			Due:        o.DueAmount,
			CustomerID: o.CustomerID,
		}
		if err := st.Events.Append(ctx, aggregateOrder, o.ID, domain.EventDueSettled, ev); err != nil {
			return err
		}
		out, err = s.expanded(ctx, st, o)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("due settled", "order_id", out.ID, "amount", in.SettledAmount.String(), "due", out.DueAmount.String())
	return out, nil
}

// DeleteOrder removes the order and always frees its table.
func (s *Service) DeleteOrder(ctx context.Context, c access.Caller, id string) error {
	if err := s.authz.Authorize(c.Role, access.ActionDeleteOrder); err != nil {
		return err
	}

	err := s.uow.Do(ctx, func(ctx context.Context, st Stores) error {
		o, err := st.Orders.GetForUpdate(ctx, c.Tenant, id)
		if err != nil {
			return err
		}
		if o.TableID != "" {
			if err := st.Tables.Release(ctx, c.Tenant, o.TableID, o.ID); err != nil {
				return fmt.Errorf("release table: %w", err)
			}
		}
		if err := st.Orders.Delete(ctx, c.Tenant, o.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return st.Events.Append(ctx, aggregateOrder, o.ID, domain.EventOrderDeleted,
			domain.OrderDeleted{OrderID: o.ID, Tenant: o.Tenant, TableID: o.TableID})
	})
	if err != nil {
		return err
	}

	s.log.Info("order deleted", "order_id", id, "tenant", c.Tenant, "by", c.UserID)
	return nil
}

func (s *Service) expanded(ctx context.Context, st Stores, o domain.Order) (domain.Order, error) {
	menu, err := st.Menu.Lookup(ctx, o.Tenant, orderMenuIDs(o))
	if err != nil {
		return domain.Order{}, fmt.Errorf("menu lookup: %w", err)
	}
	expand(&o, menu)
	return o, nil
}

func expand(o *domain.Order, menu map[string]inventory.MenuItem) {
	for i := range o.Items {
		m, ok := menu[o.Items[i].MenuItemID]
		if !ok {
			continue
		}
		o.Items[i].MenuItem = &domain.MenuItemDetail{ID: m.ID, Name: m.Name, Category: m.Category, Price: m.Price}
	}
}

func validateCreate(c access.Caller, in *CreateOrderInput) error {
	if c.Tenant == "" {
		return fmt.Errorf("%w: restaurant is required", domain.ErrValidation)
	}
	if in.OrderType == "" {
		in.OrderType = domain.TypeDineIn
	}
	if !in.OrderType.Valid() {
		return fmt.Errorf("%w: unknown order type %q", domain.ErrValidation, in.OrderType)
	}
	if in.OrderType == domain.TypeDineIn && in.TableID == "" {
		return fmt.Errorf("%w: dine-in order requires a table", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", domain.ErrValidation)
	}
	for n, l := range in.Items {
		if l.MenuItemID == "" {
			return fmt.Errorf("%w: item %d: menu item is required", domain.ErrValidation, n+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive", domain.ErrValidation, n+1)
		}
		if l.Price != nil && l.Price.IsNegative() {
			return fmt.Errorf("%w: item %d: price must not be negative", domain.ErrValidation, n+1)
		}
	}
	if in.CustomerCount < 0 {
		return fmt.Errorf("%w: customer count must not be negative", domain.ErrValidation)
	}
	return nil
}

func linePrice(n int, l LineInput, menu map[string]inventory.MenuItem) (decimal.Decimal, error) {
	if l.Price != nil {
		return *l.Price, nil
	}
	m, ok := menu[l.MenuItemID]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: item %d: %w %s and no price given", domain.ErrValidation, n+1, inventory.ErrMenuItemNotFound, l.MenuItemID)
	}
	return m.Price, nil
}

func paymentErr(err error) error {
	if errors.Is(err, payment.ErrRejected) {
		return fmt.Errorf("%w: %w", domain.ErrBusinessRule, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

func menuIDs(lines []LineInput) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MenuItemID)
	}
	return ids
}

func orderMenuIDs(orders ...domain.Order) []string {
	var ids []string
	for _, o := range orders {
		for _, it := range o.Items {
			ids = append(ids, it.MenuItemID)
		}
	}
	return ids
}
