// Package gateway is the HTTP client for the remote banking API.
//
// Every operation is a JSON request/response call. Most endpoints answer with the
// envelope {statusCode, message, data, meta}; the auditor endpoints answer with the bare
// resource. The bearer token travels on the context ([WithToken]) and is attached as an
// Authorization header.
//
// # Architecture boundaries
//
// The banking API is the authority for every data request: it validates the bearer token
// and enforces roles server-side. Nothing in this package reads or writes sessions.
//
// # What this package must NOT do
//
//   - Make authorization decisions from token contents ([TokenSubject] is display-only).
//   - Log bearer tokens, passwords or reset codes.
package gateway
