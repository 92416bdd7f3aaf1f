package bankgate

import (
	"context"

	"github.com/MrEthical07/bankgate/role"
)

// SessionReader exposes the persisted session of the current browser.
//
// Implementations must not fail: an unreadable token reads as absent and an unreadable
// role set reads as empty. *session.Handle satisfies this interface.
type SessionReader interface {
	CurrentToken(ctx context.Context) (string, bool)
	CurrentRoles(ctx context.Context) role.Set
}

type anonymous struct{}

func (anonymous) CurrentToken(context.Context) (string, bool) { return "", false }
func (anonymous) CurrentRoles(context.Context) role.Set       { return 0 }

// Anonymous is the reader for a browser without a session.
var Anonymous SessionReader = anonymous{}

// Predicate is a yes/no capability question over the current session.
type Predicate func(ctx context.Context, s SessionReader) bool

// IsAuthenticated reports whether a token is present.
func IsAuthenticated(ctx context.Context, s SessionReader) bool {
	if s == nil {
		return false
	}
	_, ok := s.CurrentToken(ctx)
	return ok
}

// HasRole reports whether the session is authenticated and holds r. Roles left behind
// without a token never count.
func HasRole(ctx context.Context, s SessionReader, r role.Role) bool {
	if !IsAuthenticated(ctx, s) {
		return false
	}
	return s.CurrentRoles(ctx).Has(r)
}

// IsCustomer reports HasRole(CUSTOMER).
func IsCustomer(ctx context.Context, s SessionReader) bool {
	return HasRole(ctx, s, role.Customer)
}

// IsAdmin reports HasRole(ADMIN).
func IsAdmin(ctx context.Context, s SessionReader) bool {
	return HasRole(ctx, s, role.Admin)
}

// IsAuditor reports HasRole(AUDITOR).
func IsAuditor(ctx context.Context, s SessionReader) bool {
	return HasRole(ctx, s, role.Auditor)
}

// RequireRole returns a predicate for a single role.
func RequireRole(r role.Role) Predicate {
	return func(ctx context.Context, s SessionReader) bool {
		return HasRole(ctx, s, r)
	}
}

// AnyOf holds when at least one of preds holds. AnyOf() never holds.
func AnyOf(preds ...Predicate) Predicate {
	return func(ctx context.Context, s SessionReader) bool {
		for _, p := range preds {
			if p != nil && p(ctx, s) {
				return true
			}
		}
		return false
	}
}

// AllOf holds when every pred holds. AllOf() never holds, so an empty rule set denies.
func AllOf(preds ...Predicate) Predicate {
	return func(ctx context.Context, s SessionReader) bool {
		if len(preds) == 0 {
			return false
		}
		for _, p := range preds {
			if p == nil || !p(ctx, s) {
				return false
			}
		}
		return true
	}
}

// IsPrivileged gates the back-office pages: admins and auditors.
var IsPrivileged Predicate = AnyOf(IsAdmin, IsAuditor)
