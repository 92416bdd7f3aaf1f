package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/MrEthical07/bankgate"
	"github.com/MrEthical07/bankgate/role"
	"github.com/MrEthical07/bankgate/session"
)

// Resolver maps a request to the session reader of its browser.
type Resolver interface {
	Resolve(r *http.Request) bankgate.SessionReader
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(r *http.Request) bankgate.SessionReader

// Resolve calls f(r).
func (f ResolverFunc) Resolve(r *http.Request) bankgate.SessionReader {
	return f(r)
}

// CookieResolver binds the session cookie to a [session.Handle] on Backend.
type CookieResolver struct {
	Backend    session.Backend
	CookieName string
	Logger     *slog.Logger
}

// Resolve returns bankgate.Anonymous when the request carries no session cookie.
func (c *CookieResolver) Resolve(r *http.Request) bankgate.SessionReader {
	h := c.Handle(r)
	if h.ID() == "" {
		return bankgate.Anonymous
	}
	return h
}

// Handle returns the session handle for the request. Without a cookie the handle has no
// ID: it reads as unauthenticated and rejects writes.
func (c *CookieResolver) Handle(r *http.Request) *session.Handle {
	id := ""
	if cookie, err := r.Cookie(c.CookieName); err == nil {
		id = cookie.Value
	}
	return session.Bind(c.Backend, id, c.Logger)
}

type sessionContextKey struct{}

// SessionFromContext returns the reader stored by [Sessions], or bankgate.Anonymous.
func SessionFromContext(ctx context.Context) bankgate.SessionReader {
	s, ok := ctx.Value(sessionContextKey{}).(bankgate.SessionReader)
	if !ok || s == nil {
		return bankgate.Anonymous
	}
	return s
}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s bankgate.SessionReader) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// Sessions resolves the browser session once per request and stores it on the request
// context for handlers and templates. Readers that can load token and roles together are
// read at most once per request; writes later in the same request are not observed.
func Sessions(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := perRequest(resolver.Resolve(r))
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// snapshotter is a reader that loads token and roles in one backend read, such as
// *session.Handle.
type snapshotter interface {
	Current(ctx context.Context) session.Session
}

// requestSession answers every predicate of one request from a single snapshot.
type requestSession struct {
	src  snapshotter
	once sync.Once
	snap session.Session
}

func (s *requestSession) load(ctx context.Context) session.Session {
	s.once.Do(func() {
		s.snap = s.src.Current(ctx)
	})
	return s.snap
}

func (s *requestSession) CurrentToken(ctx context.Context) (string, bool) {
	return s.load(ctx).CurrentToken(ctx)
}

func (s *requestSession) CurrentRoles(ctx context.Context) role.Set {
	return s.load(ctx).CurrentRoles(ctx)
}

// perRequest wraps s so a request reads the backend at most once.
func perRequest(s bankgate.SessionReader) bankgate.SessionReader {
	if s == nil {
		return bankgate.Anonymous
	}
	if src, ok := s.(snapshotter); ok {
		return &requestSession{src: src}
	}
	return s
}
