// Package policy holds the declarative access table: every operation
// exposed at the boundary names the minimum role allowed to invoke it.
package policy

import (
	"fmt"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// Operation names a boundary operation.
type Operation string

const (
	OpLogin          Operation = "login"
	OpRegister       Operation = "register"
	OpDashboard      Operation = "dashboard"
	OpHotelDetail    Operation = "hotel_detail"
	OpBook           Operation = "book"
	OpMyBookings     Operation = "my_bookings"
	OpAdminDashboard Operation = "admin_dashboard"
	OpAddHotel       Operation = "add_hotel"
	OpDeleteHotel    Operation = "delete_hotel"
)

var defaultRules = map[Operation]domain.Role{
	OpLogin:          domain.RoleAnonymous,
	OpRegister:       domain.RoleAnonymous,
	OpDashboard:      domain.RoleUser,
	OpHotelDetail:    domain.RoleUser,
	OpBook:           domain.RoleUser,
	OpMyBookings:     domain.RoleUser,
	OpAdminDashboard: domain.RoleAdmin,
	OpAddHotel:       domain.RoleAdmin,
	OpDeleteHotel:    domain.RoleAdmin,
}

// Policy maps operations to the minimum role required to invoke them.
// Operations missing from the table are denied.
type Policy struct {
	rules map[Operation]domain.Role
}

// Default returns the policy of the booking service.
func Default() *Policy {
	return New(defaultRules)
}

// New builds a policy from rules. The map is copied.
func New(rules map[Operation]domain.Role) *Policy {
	p := &Policy{rules: make(map[Operation]domain.Role, len(rules))}
	for op, role := range rules {
		p.rules[op] = role
	}
	return p
}

// MinimumRole returns the role required for op.
func (p *Policy) MinimumRole(op Operation) (domain.Role, bool) {
	r, ok := p.rules[op]
	return r, ok
}

// Authorize returns an error wrapping domain.ErrUnauthorized when id may
// not invoke op.
func (p *Policy) Authorize(id domain.Identity, op Operation) error {
	min, ok := p.rules[op]
	if !ok {
		return fmt.Errorf("%s: unknown operation: %w", op, domain.ErrUnauthorized)
	}
	if min != domain.RoleAnonymous && !id.Authenticated() {
		return fmt.Errorf("%s: login required: %w", op, domain.ErrUnauthorized)
	}
	if !id.Role.AtLeast(min) {
		return fmt.Errorf("%s: requires %s role: %w", op, min, domain.ErrUnauthorized)
	}
	return nil
}
