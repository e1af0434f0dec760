package access

import "fmt"

var (
	admins    = []Role{RoleSuperAdmin, RoleOwner, RoleManager}
	frontDesk = []Role{RoleSuperAdmin, RoleOwner, RoleManager, RoleCashier, RoleReceptionist}
	floor     = []Role{RoleSuperAdmin, RoleOwner, RoleManager, RoleCashier, RoleReceptionist, RoleWaiter}
	kitchen   = []Role{RoleSuperAdmin, RoleOwner, RoleManager, RoleKitchenStaff}
	everyone  = []Role{RoleSuperAdmin, RoleOwner, RoleManager, RoleCashier, RoleReceptionist, RoleWaiter, RoleKitchenStaff}
)

var actionGrants = map[Action][]Role{
	ActionReadOrders:       everyone,
	ActionCreateOrder:      floor,
	ActionEditOrder:        floor,
	ActionChangeStatus:     everyone,
	ActionChangeItemStatus: kitchen,
	ActionSettle:           frontDesk,
	ActionDeleteOrder:      admins,
	ActionManageTables:     frontDesk,
	ActionManageCustomers:  floor,
	ActionViewStats:        admins,
}

// statusGrants restricts direct order-status requests. Roles that are not
// listed may request any status.
var statusGrants = map[Role][]string{
	RoleWaiter:       {"served", "cancelled"},
	RoleKitchenStaff: {"preparing", "ready", "completed"},
}

type Policy struct {
	actions  map[Action]map[Role]bool
	statuses map[Role]map[string]bool
}

func NewPolicy() *Policy {
	p := &Policy{
		actions:  make(map[Action]map[Role]bool, len(actionGrants)),
		statuses: make(map[Role]map[string]bool, len(statusGrants)),
	}
	for action, rs := range actionGrants {
		p.actions[action] = make(map[Role]bool, len(rs))
		for _, r := range rs {
			p.actions[action][r] = true
		}
	}
	for r, ss := range statusGrants {
		p.statuses[r] = make(map[string]bool, len(ss))
		for _, s := range ss {
			p.statuses[r][s] = true
		}
	}
	return p
}

func (p *Policy) Authorize(role Role, action Action) error {
	if !p.actions[action][role] {
		return fmt.Errorf("%w: role %q may not perform %s", ErrForbidden, role, action)
	}
	return nil
}

func (p *Policy) AuthorizeStatus(role Role, status string) error {
	allowed, restricted := p.statuses[role]
	if restricted && !allowed[status] {
		return fmt.Errorf("%w: role %q may not set order status %q", ErrForbidden, role, status)
	}
	return nil
}
