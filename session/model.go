package session

import (
	"context"

	"github.com/MrEthical07/bankgate/role"
)

// Session is the persisted authentication state of one browser.
//
// An empty Token means unauthenticated; Roles is only meaningful when Token is set.
type Session struct {
	Token string
	Roles role.Set
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// CurrentToken lets a Session stand in as a fixed reader for predicates.
func (s Session) CurrentToken(context.Context) (string, bool) {
	return s.Token, s.Authenticated()
}

// CurrentRoles returns Roles, or the empty set when there is no token.
func (s Session) CurrentRoles(context.Context) role.Set {
	if !s.Authenticated() {
		return 0
	}
	return s.Roles
}
