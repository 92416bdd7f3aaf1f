package web

import (
	"errors"
	"net/http"

	"github.com/MrEthical07/bankgate"
	"github.com/MrEthical07/bankgate/gateway"
	"github.com/MrEthical07/bankgate/internal/audit"
	"github.com/MrEthical07/bankgate/internal/rate"
	"github.com/MrEthical07/bankgate/middleware"
	"github.com/MrEthical07/bankgate/role"
	"github.com/MrEthical07/bankgate/session"
)

var errUnknownRole = errors.New("login returned an unknown role")

// notices are the one-line confirmations a redirect can ask a page to show.
var notices = map[string]string{
	"registered": "Registration successful. Please log in.",
	"reset":      "Password reset successfully. Please log in with your new password.",
	"picture":    "Profile picture updated successfully!",
}

func notice(r *http.Request) string {
	return notices[r.URL.Query().Get("notice")]
}

func (s *Server) sessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// endSession clears the browser's session and expires its cookie. A backend failure is
// logged; the cookie is expired regardless.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	h := s.resolver.Handle(r)
	if err := h.Clear(r.Context()); err != nil {
		s.logger.Error("clear session", "error", err)
	}
	c := s.sessionCookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", page{
		Title:   "Login",
		Success: notice(r),
		Form:    loginForm{From: r.URL.Query().Get(middleware.ReturnParam)},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login", page{Title: "Login", Form: loginForm{}, Error: "Invalid form submission"})
		return
	}
	form := readLoginForm(r)
	if errs := s.check(form); errs != nil {
		form.Password = ""
		s.render(w, r, http.StatusUnprocessableEntity, "login", page{Title: "Login", Form: form, Errors: errs})
		return
	}

	ctx := r.Context()
	ip := bankgate.ClientIPFromContext(ctx)
	if err := s.throttle.Check(ctx, form.Email, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			s.loginFailed(w, r, form, err)
			return
		}
		s.logger.Warn("login throttle unavailable", "error", err)
	}

	res, err := s.api.Login(ctx, gateway.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			if ferr := s.throttle.Fail(ctx, form.Email, ip); ferr != nil {
				s.logger.Warn("record failed login", "error", ferr)
			}
		}
		s.loginFailed(w, r, form, err)
		return
	}
	if err := s.throttle.Reset(ctx, form.Email, ip); err != nil {
		s.logger.Warn("reset login throttle", "error", err)
	}

	roles, err := role.ParseSet(res.Roles)
	if err != nil {
		s.logger.Warn("login returned unknown role", "roles", res.Roles, "error", err)
		s.loginFailed(w, r, form, errUnknownRole)
		return
	}

	// Every login gets a fresh session ID; whatever the browser held before is dropped.
	if prev := s.resolver.Handle(r); prev.ID() != "" {
		if err := prev.Clear(ctx); err != nil {
			s.logger.Warn("clear previous session", "error", err)
		}
	}
	h := session.Bind(s.backend, session.NewID(), s.logger)
	if err := h.Save(ctx, res.Token, roles); err != nil {
		s.logger.Error("save session", "error", err)
		s.metrics.ObserveLogin(false)
		s.emit(r, audit.Event{EventType: audit.LoginFailure, Subject: form.Email, Error: "session store unavailable"})
		form.Password = ""
		s.render(w, r, http.StatusServiceUnavailable, "login", page{
			Title: "Login",
			Form:  form,
			Error: "We could not start your session. Please try again.",
		})
		return
	}
	http.SetCookie(w, s.sessionCookie(h.ID()))

	subject := gateway.TokenSubject(res.Token)
	if subject == "" {
		subject = form.Email
	}
	s.metrics.ObserveLogin(true)
	s.emit(r, audit.Event{
		EventType: audit.LoginSuccess,
		SessionID: h.ID(),
		Subject:   subject,
		Roles:     roles.Names(),
		Success:   true,
	})
	s.logger.Info("login", "subject", subject, "roles", roles.Names())

	http.Redirect(w, r, middleware.SafeReturnPath(form.From), http.StatusSeeOther)
}

func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, form loginForm, err error) {
	s.metrics.ObserveLogin(false)
	s.emit(r, audit.Event{EventType: audit.LoginFailure, Subject: form.Email, Error: err.Error()})

	status, msg := failure(err, "Login failed")
	switch {
	case errors.Is(err, errUnknownRole):
		status, msg = http.StatusForbidden, "Your account has a role this site does not recognise. Please contact support."
	case errors.Is(err, rate.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, "Too many failed login attempts. Please try again later."
	}
	form.Password = ""
	s.render(w, r, status, "login", page{Title: "Login", Form: form, Error: msg})
}

// logoutPage asks for confirmation before the session is cleared. Without a session there
// is nothing to confirm.
func (s *Server) logoutPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !bankgate.IsAuthenticated(ctx, middleware.SessionFromContext(ctx)) {
		http.Redirect(w, r, s.loginPath, http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "logout", page{Title: "Logout"})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	id := s.resolver.Handle(r).ID()
	s.endSession(w, r)

	s.metrics.ObserveLogout()
	s.emit(r, audit.Event{EventType: audit.Logout, SessionID: id, Success: true})

	http.Redirect(w, r, s.loginPath, http.StatusSeeOther)
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", page{Title: "Register", Form: registerForm{}})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "register", page{Title: "Register", Form: registerForm{}, Error: "Invalid form submission"})
		return
	}
	form := readRegisterForm(r)
	if errs := s.check(form); errs != nil {
		form.Password = ""
		s.render(w, r, http.StatusUnprocessableEntity, "register", page{Title: "Register", Form: form, Errors: errs})
		return
	}

	_, err := s.api.Register(r.Context(), gateway.RegisterRequest{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Password:    form.Password,
	})
	if err != nil {
		status, msg := failure(err, "Registration failed")
		form.Password = ""
		s.render(w, r, status, "register", page{Title: "Register", Form: form, Error: msg})
		return
	}
	http.Redirect(w, r, s.loginPath+"?notice=registered", http.StatusSeeOther)
}

func (s *Server) forgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "forgot_password", page{Title: "Forgot Password", Form: forgotPasswordForm{}})
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "forgot_password", page{Title: "Forgot Password", Form: forgotPasswordForm{}, Error: "Invalid form submission"})
		return
	}
	form := forgotPasswordForm{Email: formValue(r, "email")}
	if errs := s.check(form); errs != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "forgot_password", page{Title: "Forgot Password", Form: form, Errors: errs})
		return
	}

	if _, err := s.api.ForgotPassword(r.Context(), form.Email); err != nil {
		status, msg := failure(err, "An error occurred while sending reset email")
		s.render(w, r, status, "forgot_password", page{Title: "Forgot Password", Form: form, Error: msg})
		return
	}
	s.render(w, r, http.StatusOK, "forgot_password", page{
		Title:   "Forgot Password",
		Form:    forgotPasswordForm{},
		Success: "An email with your reset code has been sent to your email address.",
	})
}

func (s *Server) resetPasswordPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "reset_password", page{
		Title: "Reset Password",
		Form:  resetPasswordForm{Code: r.URL.Query().Get("code")},
	})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "reset_password", page{Title: "Reset Password", Form: resetPasswordForm{}, Error: "Invalid form submission"})
		return
	}
	form := readResetPasswordForm(r)
	if errs := s.check(form); errs != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "reset_password", page{
			Title:  "Reset Password",
			Form:   resetPasswordForm{Code: form.Code},
			Errors: errs,
		})
		return
	}

	if _, err := s.api.ResetPassword(r.Context(), form.Code, form.NewPassword); err != nil {
		status, msg := failure(err, "Password reset failed")
		s.render(w, r, status, "reset_password", page{Title: "Reset Password", Form: resetPasswordForm{Code: form.Code}, Error: msg})
		return
	}
	http.Redirect(w, r, s.loginPath+"?notice=reset", http.StatusSeeOther)
}
