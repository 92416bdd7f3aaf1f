// Package rate throttles failed logins with Redis counters.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Keys live under the
// session prefix:
//   - <prefix>:login:email:<email>  failed logins per lowercased email
//   - <prefix>:login:ip:<ip>        failed logins per client IP (optional)
//
// A key is limited once its counter reaches the configured maximum, until the window's
// TTL runs out or a successful login resets it.
package rate
