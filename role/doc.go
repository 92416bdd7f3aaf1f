// Package role provides the closed set of principal roles granted by the banking API and
// a compact bitmask set over them.
//
// # Closed enumeration
//
// Roles are a fixed enumeration ([Customer], [Admin], [Auditor]). Names are matched
// exactly and case-sensitively. An unknown name is an error at parse time, never a silent
// false at check time.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It provides the codec
// ([EncodeSet]/[DecodeSet]) used by the session role slot.
//
// # What this package must NOT do
//
//   - Access Redis, the banking API, or the network.
//   - Import bankgate, session, or middleware.
//   - Model role hierarchies. Composite capabilities belong to call sites.
package role
