package domain

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderUpdated       = "OrderUpdated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventItemStatusChanged  = "ItemStatusChanged"
	EventPaymentSettled     = "PaymentSettled"
	EventDueSettled         = "DueSettled"
	EventOrderDeleted       = "OrderDeleted"
)

type OrderCreated struct {
	Order Order `json:"order"`
}

type OrderUpdated struct {
	Order        Order  `json:"order"`
	ReleasedFrom string `json:"released_table,omitempty"`
	OccupiedTo   string `json:"occupied_table,omitempty"`
}

type OrderStatusChanged struct {
	OrderID      string `json:"order_id"`
	Tenant       string `json:"tenant"`
	From         Status `json:"from"`
	To           Status `json:"to"`
	TableRelease bool   `json:"table_released"`
}

type ItemStatusChanged struct {
	OrderID     string     `json:"order_id"`
	Tenant      string     `json:"tenant"`
	ItemID      string     `json:"item_id"`
	From        ItemStatus `json:"from"`
	To          ItemStatus `json:"to"`
	OrderStatus Status     `json:"order_status"`
}

type OrderDeleted struct {
	OrderID string `json:"order_id"`
	Tenant  string `json:"tenant"`
	TableID string `json:"table_id,omitempty"`
}
