// Package access decides which staff roles may perform which order
// operations. Grants are plain data tables.
package access

import (
	"errors"
	"fmt"
)

var ErrForbidden = errors.New("forbidden")

type Role string

const (
	RoleSuperAdmin   Role = "superadmin"
	RoleOwner        Role = "owner"
	RoleManager      Role = "manager"
	RoleCashier      Role = "cashier"
	RoleReceptionist Role = "receptionist"
	RoleWaiter       Role = "waiter"
	RoleKitchenStaff Role = "kitchen_staff"
)

var roles = map[Role]struct{}{
	RoleSuperAdmin: {}, RoleOwner: {}, RoleManager: {}, RoleCashier: {},
	RoleReceptionist: {}, RoleWaiter: {}, RoleKitchenStaff: {},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roles[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type Action string

const (
	ActionReadOrders       Action = "orders.read"
	ActionCreateOrder      Action = "orders.create"
	ActionEditOrder        Action = "orders.edit"
	ActionChangeStatus     Action = "orders.status"
	ActionChangeItemStatus Action = "orders.item_status"
	ActionSettle           Action = "orders.settle"
	ActionDeleteOrder      Action = "orders.delete"
	ActionManageTables     Action = "tables.manage"
	ActionManageCustomers  Action = "customers.manage"
	ActionViewStats        Action = "orders.stats"
)

// Caller is the authenticated staff member behind a request. Tenant scopes
// every read and write.
type Caller struct {
	UserID string
	Role   Role
	Tenant string
}
