package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/MrEthical07/bankgate"
)

// DefaultLoginPath is the login entry point guards redirect to.
const DefaultLoginPath = "/login"

// ReturnParam is the query parameter carrying the originally requested location.
const ReturnParam = "from"

// DefaultReturnPath is where a login lands when no usable "from" location is attached.
const DefaultReturnPath = "/home"

// Decision is the terminal state of one guard evaluation.
type Decision int

const (
	// Rendered means the wrapped handler ran.
	Rendered Decision = iota
	// Redirected means the request was sent to the login page.
	Redirected
)

func (d Decision) String() string {
	if d == Rendered {
		return "rendered"
	}
	return "redirected"
}

// Observer is notified of every guard decision.
type Observer func(r *http.Request, guard string, d Decision)

type guardOptions struct {
	name      string
	loginPath string
	observer  Observer
}

// Option configures a guard.
type Option func(*guardOptions)

// WithLoginPath overrides the redirect target.
func WithLoginPath(path string) Option {
	return func(o *guardOptions) {
		if path != "" {
			o.loginPath = path
		}
	}
}

// WithObserver registers a decision callback (metrics, audit).
func WithObserver(obs Observer) Option {
	return func(o *guardOptions) {
		o.observer = obs
	}
}

// WithName labels the guard for observers.
func WithName(name string) Option {
	return func(o *guardOptions) {
		o.name = name
	}
}

// Guard returns middleware that runs next when allow holds for the request's session and
// otherwise answers 303 See Other to the login page with the requested URI in "from".
//
// The session is taken from the request context when [Sessions] ran earlier in the chain
// and resolved through resolver otherwise.
func Guard(resolver Resolver, allow bankgate.Predicate, opts ...Option) func(http.Handler) http.Handler {
	o := guardOptions{
		name:      "guard",
		loginPath: DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := sessionFor(r, resolver)

			if allow != nil && allow(r.Context(), s) {
				o.notify(r, Rendered)
				next.ServeHTTP(w, r)
				return
			}

			o.notify(r, Redirected)
			http.Redirect(w, r, LoginRedirect(o.loginPath, r.URL.RequestURI()), http.StatusSeeOther)
		})
	}
}

// RequireCustomer gates on bankgate.IsCustomer.
func RequireCustomer(resolver Resolver, opts ...Option) func(http.Handler) http.Handler {
	opts = append([]Option{WithName("customer")}, opts...)
	return Guard(resolver, bankgate.IsCustomer, opts...)
}

// RequirePrivileged gates on bankgate.IsPrivileged (admin or auditor).
func RequirePrivileged(resolver Resolver, opts ...Option) func(http.Handler) http.Handler {
	opts = append([]Option{WithName("privileged")}, opts...)
	return Guard(resolver, bankgate.IsPrivileged, opts...)
}

func (o *guardOptions) notify(r *http.Request, d Decision) {
	if o.observer != nil {
		o.observer(r, o.name, d)
	}
}

func sessionFor(r *http.Request, resolver Resolver) bankgate.SessionReader {
	if s, ok := r.Context().Value(sessionContextKey{}).(bankgate.SessionReader); ok && s != nil {
		return s
	}
	if resolver == nil {
		return bankgate.Anonymous
	}
	return perRequest(resolver.Resolve(r))
}

// LoginRedirect builds the login URL carrying from as the return location.
func LoginRedirect(loginPath, from string) string {
	if from == "" {
		return loginPath
	}
	return loginPath + "?" + url.Values{ReturnParam: {from}}.Encode()
}

// SafeReturnPath returns from when it is a local absolute path and DefaultReturnPath
// otherwise, so a crafted "from" cannot send a fresh login to another origin.
func SafeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") {
		return DefaultReturnPath
	}
	if strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return DefaultReturnPath
	}
	if strings.ContainsAny(from, "\r\n") {
		return DefaultReturnPath
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultReturnPath
	}
	return from
}
