// Package metrics owns the Prometheus collectors of bankgate: guard decisions, login and
// logout outcomes, audit drops and banking API call latency.
//
// # Architecture boundaries
//
// Collectors register on a caller-supplied [prometheus.Registerer]; the package keeps no
// global registry. Exposition is the web package's /metrics route.
//
// # What this package must NOT do
//
//   - Read sessions or evaluate predicates.
//   - Perform network calls.
package metrics
