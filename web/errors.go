package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrEthical07/bankgate/gateway"
	"github.com/MrEthical07/bankgate/middleware"
)

const unreachableMessage = "The bank is unreachable right now. Please try again later."

// bankCtx returns the request context carrying the session's bearer token.
func (s *Server) bankCtx(r *http.Request) context.Context {
	ctx := r.Context()
	if token, ok := middleware.SessionFromContext(ctx).CurrentToken(ctx); ok {
		return gateway.WithToken(ctx, token)
	}
	return ctx
}

// failure maps a gateway error to a response status and the message a page shows.
func failure(err error, fallback string) (int, string) {
	if errors.Is(err, gateway.ErrUnavailable) {
		return http.StatusBadGateway, unreachableMessage
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		return status, gateway.Message(err, fallback)
	}
	return http.StatusBadGateway, fallback
}

// sessionExpired ends the session and sends the browser to the login page when the API
// rejected the bearer token. It reports whether it answered the request.
func (s *Server) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, gateway.ErrUnauthorized) {
		return false
	}
	s.logger.Info("banking api rejected session token", "path", r.URL.Path)
	s.endSession(w, r)
	http.Redirect(w, r, middleware.LoginRedirect(s.loginPath, r.URL.RequestURI()), http.StatusSeeOther)
	return true
}
