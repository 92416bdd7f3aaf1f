// Package middleware exposes HTTP middleware that resolves the browser session and gates
// pages on authorization predicates from package bankgate.
//
// # Guards
//
//   - [Guard] renders the wrapped handler when a predicate holds and otherwise redirects
//     to the login page, carrying the requested location in the "from" query parameter.
//   - [RequireCustomer] gates the personal banking pages on bankgate.IsCustomer.
//   - [RequirePrivileged] gates the back-office pages on bankgate.IsPrivileged.
//
// A guard evaluates from scratch on every request. A denied request is not an error: the
// response is a redirect with no body, identical for "never logged in" and "wrong role".
//
// # Architecture boundaries
//
// This package translates HTTP semantics into predicate calls. It does NOT persist
// sessions (package session) or decide capabilities itself (package bankgate). The gate
// is a navigation aid; the banking API rejects stale or forged tokens on every data call.
//
// # What this package must NOT do
//
//   - Call the banking API.
//   - Cache a decision across requests.
//   - Write an error page for a denied request.
package middleware
