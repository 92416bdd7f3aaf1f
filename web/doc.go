// Package web serves the bank's pages: a gorilla/mux router, html/template views embedded
// in the binary, and handlers that call the banking API through the gateway.
//
// Pages under /profile, /update-profile, /transactions and /transfer sit behind the
// customer guard; /auditor-dashboard and /deposit sit behind the privileged guard. Every
// other route is public, and unknown paths render the not-found page.
//
// # Architecture boundaries
//
// Login is the only writer of a session (save) and logout the only one that clears it.
// Handlers read the session through the reader the Sessions middleware put on the request
// context. The role gate decides which pages render; the banking API still validates the
// bearer token on every data call.
package web
