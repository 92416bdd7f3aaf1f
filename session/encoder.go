package session

import (
	"github.com/MrEthical07/bankgate/role"
)

const (
	tokenSlot = "token"
	rolesSlot = "roles"
)

// EncodeRoles serializes a role set for the roles slot.
func EncodeRoles(roles role.Set) ([]byte, error) {
	return role.EncodeSet(roles)
}

// DecodeRoles parses a roles slot. A missing slot decodes to the empty set.
func DecodeRoles(data []byte) (role.Set, error) {
	if data == nil {
		return 0, nil
	}
	return role.DecodeSet(data)
}

func slotKey(prefix, id, slot string) string {
	return prefix + ":" + id + ":" + slot
}
