package middleware

import (
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/MrEthical07/bankgate"
)

// RequestContext attaches a request ID and the client IP to the request context.
// An inbound X-Request-ID header is reused.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := bankgate.WithRequestID(r.Context(), id)
		ctx = bankgate.WithClientIP(ctx, clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
