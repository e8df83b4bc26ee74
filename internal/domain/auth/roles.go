package auth

import "context"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleGuest    = "guest"
)

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmployee, RoleGuest:
		return true
	}
	return false
}

// ClampSignupRole maps a requested signup role to one a caller may hold.
// Admin cannot be self-assigned; unknown values fall back to employee.
func ClampSignupRole(requested string) string {
	if requested == RoleEmployee || requested == RoleGuest {
		return requested
	}
	return RoleEmployee
}

type RoleStore interface {
	RoleByUserID(ctx context.Context, userID string) (string, error)
}

type Resolver struct {
	Store RoleStore
}

func NewResolver(store RoleStore) *Resolver {
	return &Resolver{Store: store}
}

// ResolveRole never fails: an empty id, a lookup error, or an unknown role
// all resolve to guest so callers can gate on the result directly.
func (r *Resolver) ResolveRole(ctx context.Context, userID string) string {
	if userID == "" {
		return RoleGuest
	}
	role, err := r.Store.RoleByUserID(ctx, userID)
	if err != nil || !ValidRole(role) {
		return RoleGuest
	}
	return role
}
