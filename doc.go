// Package bankgate is the server-side web front end of the Phegon Bank retail banking
// service. It renders the customer and back-office pages and forwards every banking
// operation to the remote banking API.
//
// The package root holds [Config] and the authorization predicate set: pure functions
// over a [SessionReader] deciding whether the current browser session is authenticated
// and which roles it holds. Route enforcement built on these predicates lives in the
// middleware package; session persistence lives in the session package.
//
// # Architecture boundaries
//
// Predicates read session state on every call and never cache a decision. They are a
// navigation aid: the banking API validates the bearer token on every data request and
// is the only authority on what a principal may do.
//
// # What this package must NOT do
//
//   - Perform I/O other than through the [SessionReader] it is handed.
//   - Hold process-wide session state.
//   - Import web, middleware, or gateway (no import cycles).
package bankgate
