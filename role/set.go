package role

// Set is a bitmask over [Role] values. The zero value is the empty set.
type Set uint64

// NewSet returns a set holding the given roles. Invalid roles are ignored.
func NewSet(roles ...Role) Set {
	var s Set
	for _, r := range roles {
		s = s.Add(r)
	}
	return s
}

// ParseSet builds a set from wire names. It fails on the first unknown name.
// Duplicates collapse; a nil or empty slice yields the empty set.
func ParseSet(names []string) (Set, error) {
	var s Set
	for _, name := range names {
		r, err := Parse(name)
		if err != nil {
			return 0, err
		}
		s = s.Add(r)
	}
	return s, nil
}

// Has reports whether r is a member of s.
func (s Set) Has(r Role) bool {
	if !r.Valid() {
		return false
	}
	return s&(1<<r) != 0
}

// Add returns s with r added.
func (s Set) Add(r Role) Set {
	if !r.Valid() {
		return s
	}
	return s | (1 << r)
}

// Remove returns s with r removed.
func (s Set) Remove(r Role) Set {
	if !r.Valid() {
		return s
	}
	return s &^ (1 << r)
}

// Union returns the roles present in either set.
func (s Set) Union(other Set) Set {
	return s | other
}

// Empty reports whether s holds no roles.
func (s Set) Empty() bool {
	return s == 0
}

// Len returns the number of roles in s.
func (s Set) Len() int {
	n := 0
	for r := Role(0); r < roleCount; r++ {
		if s.Has(r) {
			n++
		}
	}
	return n
}

// Roles returns the members of s in declaration order.
func (s Set) Roles() []Role {
	out := make([]Role, 0, roleCount)
	for r := Role(0); r < roleCount; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Names returns the wire names of the members of s in declaration order.
func (s Set) Names() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}
