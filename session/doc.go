// Package session persists the bearer token and role set the banking API grants at login,
// and exposes them to request handlers through a bound [Handle].
//
// # Slot layout
//
// A session is two named slots sharing one lifecycle: the token as a raw string and the
// roles as a JSON array of role names. Backends write both slots together and delete both
// slots together. Redis keys are <prefix>:<id>:token and <prefix>:<id>:roles.
//
// # Read semantics
//
// [Handle.CurrentToken] and [Handle.CurrentRoles] never fail. A backend error reads as
// "no session"; a corrupt roles slot reads as "no roles". A roles slot without a token
// grants nothing.
//
// # Architecture boundaries
//
// This package owns the [Backend] implementations ([Store] for Redis, [MemoryStore]
// in-process) and the [Handle]. It does NOT call the banking API, validate tokens, or make
// authorization decisions. Token validity is enforced by the banking API on every data
// request; the role gate built on this package is a navigation aid, not a security
// boundary.
//
// # What this package must NOT do
//
//   - Import bankgate, middleware, or gateway (no upward imports).
//   - Decode or trust claims inside the bearer token.
//   - Add expiry refresh or token rotation logic.
package session
