package role

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned when a role name is not part of the enumeration.
var ErrUnknownRole = errors.New("unknown role")

// Role is a capability tag granted by the banking API at login.
type Role uint8

const (
	// Customer may use the personal banking pages.
	Customer Role = iota
	// Admin may use the privileged back-office pages.
	Admin
	// Auditor may use the privileged back-office pages.
	Auditor
	roleCount
)

var roleNames = [roleCount]string{
	Customer: "CUSTOMER",
	Admin:    "ADMIN",
	Auditor:  "AUDITOR",
}

// All returns every role in declaration order.
func All() []Role {
	out := make([]Role, 0, roleCount)
	for r := Role(0); r < roleCount; r++ {
		out = append(out, r)
	}
	return out
}

// String returns the wire name of the role.
func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return roleNames[r]
}

// Valid reports whether r is a member of the enumeration.
func (r Role) Valid() bool {
	return r < roleCount
}

// Parse maps a wire name to its Role. Matching is exact and case-sensitive.
func Parse(name string) (Role, error) {
	for r := Role(0); r < roleCount; r++ {
		if roleNames[r] == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}
