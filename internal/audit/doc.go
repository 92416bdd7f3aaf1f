// Package audit relays navigation and authentication events (logins, logouts, guard
// denials) to a sink without blocking the request path.
//
// # Components
//
//   - [Sink]: event consumer (channel, JSON lines writer, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full or block-if-full semantics.
//   - [Event]: one record with timestamp, type, session, subject, path and client data.
//
// # Architecture boundaries
//
// This package owns buffering and delivery. The web layer decides which events to emit.
//
// # What this package must NOT do
//
//   - Record bearer tokens or passwords.
//   - Import bankgate or any sibling package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
