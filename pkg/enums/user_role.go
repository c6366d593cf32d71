package enums

import "fmt"

// UserRole gates store operations: cashiers sell, managers manage catalog
// and payables, the CEO additionally consolidates invoices and deletes
// transactions.
type UserRole string

const (
	UserRoleCashier UserRole = "cashier"
	UserRoleManager UserRole = "manager"
	UserRoleCEO     UserRole = "ceo"
)

var validUserRoles = []UserRole{
	UserRoleCashier,
	UserRoleManager,
	UserRoleCEO,
}

var roleRank = map[UserRole]int{
	UserRoleCashier: 1,
	UserRoleManager: 2,
	UserRoleCEO:     3,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// AtLeast reports whether the role meets or exceeds the required role.
func (u UserRole) AtLeast(required UserRole) bool {
	return roleRank[u] >= roleRank[required]
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
