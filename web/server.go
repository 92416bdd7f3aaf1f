package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrEthical07/bankgate"
	"github.com/MrEthical07/bankgate/gateway"
	"github.com/MrEthical07/bankgate/internal/audit"
	"github.com/MrEthical07/bankgate/internal/metrics"
	"github.com/MrEthical07/bankgate/internal/rate"
	"github.com/MrEthical07/bankgate/middleware"
	"github.com/MrEthical07/bankgate/session"
)

// Banking is the part of the banking API the pages use. *gateway.Client implements it.
type Banking interface {
	Login(ctx context.Context, req gateway.LoginRequest) (*gateway.LoginResult, error)
	Register(ctx context.Context, req gateway.RegisterRequest) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, code, newPassword string) (string, error)
	MyProfile(ctx context.Context) (*gateway.User, error)
	UpdatePassword(ctx context.Context, oldPassword, newPassword string) (string, error)
	UploadProfilePicture(ctx context.Context, up gateway.Upload) (string, error)
	MyAccounts(ctx context.Context) ([]gateway.Account, error)
	Transfer(ctx context.Context, req gateway.TransactionRequest) (string, error)
	Deposit(ctx context.Context, req gateway.TransactionRequest) (string, error)
	Transactions(ctx context.Context, accountNumber string, page, size int) (*gateway.TransactionPage, error)
	SystemTotals(ctx context.Context) (*gateway.SystemTotals, error)
	FindUserByEmail(ctx context.Context, email string) (*gateway.User, error)
	FindAccount(ctx context.Context, accountNumber string) (*gateway.Account, error)
	TransactionsByAccount(ctx context.Context, accountNumber string) ([]gateway.Transaction, error)
	TransactionByID(ctx context.Context, id int64) (*gateway.Transaction, error)
}

// Options wires a Server.
type Options struct {
	API           Banking
	Sessions      session.Backend
	CookieName    string
	SecureCookies bool
	LoginPath     string

	// Optional.
	Throttle *rate.Limiter
	Audit    *audit.Dispatcher
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   func(ctx context.Context) error
	Logger   *slog.Logger
}

// Server holds the page handlers.
type Server struct {
	api           Banking
	backend       session.Backend
	resolver      *middleware.CookieResolver
	cookieName    string
	secureCookies bool
	loginPath     string
	throttle      *rate.Limiter
	audit         *audit.Dispatcher
	metrics       *metrics.Metrics
	gatherer      prometheus.Gatherer
	health        func(ctx context.Context) error
	logger        *slog.Logger
	pages         map[string]*template.Template
	validate      *validator.Validate
}

// New parses the embedded templates and returns a server.
func New(opts Options) (*Server, error) {
	if opts.API == nil {
		return nil, errors.New("web: API is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("web: session backend is required")
	}
	if opts.CookieName == "" {
		opts.CookieName = bankgate.DefaultConfig().Server.CookieName
	}
	if opts.LoginPath == "" {
		opts.LoginPath = middleware.DefaultLoginPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		api:     opts.API,
		backend: opts.Sessions,
		resolver: &middleware.CookieResolver{
			Backend:    opts.Sessions,
			CookieName: opts.CookieName,
			Logger:     opts.Logger,
		},
		cookieName:    opts.CookieName,
		secureCookies: opts.SecureCookies,
		loginPath:     opts.LoginPath,
		throttle:      opts.Throttle,
		audit:         opts.Audit,
		metrics:       opts.Metrics,
		gatherer:      opts.Gatherer,
		health:        opts.Health,
		logger:        opts.Logger,
		pages:         pages,
		validate:      newFormValidator(),
	}, nil
}

// Handler returns the routed application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestContext)
	r.Use(middleware.Sessions(s.resolver))

	guardOpts := []middleware.Option{
		middleware.WithLoginPath(s.loginPath),
		middleware.WithObserver(s.observeGuard),
	}
	customer := middleware.RequireCustomer(s.resolver, guardOpts...)
	privileged := middleware.RequirePrivileged(s.resolver, guardOpts...)

	staticSub, _ := fs.Sub(staticFS, "static")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub)))).Methods(http.MethodGet, http.MethodHead)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Public pages.
	r.HandleFunc("/", s.home).Methods(http.MethodGet)
	r.HandleFunc("/home", s.home).Methods(http.MethodGet)
	r.HandleFunc(s.loginPath, s.loginPage).Methods(http.MethodGet)
	r.HandleFunc(s.loginPath, s.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logoutPage).Methods(http.MethodGet)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	r.HandleFunc("/register", s.registerPage).Methods(http.MethodGet)
	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/forgot-password", s.forgotPasswordPage).Methods(http.MethodGet)
	r.HandleFunc("/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", s.resetPasswordPage).Methods(http.MethodGet)
	r.HandleFunc("/reset-password", s.resetPassword).Methods(http.MethodPost)

	// Customer pages.
	r.Handle("/profile", customer(http.HandlerFunc(s.profile))).Methods(http.MethodGet)
	r.Handle("/profile", customer(http.HandlerFunc(s.uploadPicture))).Methods(http.MethodPost)
	r.Handle("/update-profile", customer(http.HandlerFunc(s.updatePasswordPage))).Methods(http.MethodGet)
	r.Handle("/update-profile", customer(http.HandlerFunc(s.updatePassword))).Methods(http.MethodPost)
	r.Handle("/transactions", customer(http.HandlerFunc(s.transactions))).Methods(http.MethodGet)
	r.Handle("/transfer", customer(http.HandlerFunc(s.transferPage))).Methods(http.MethodGet)
	r.Handle("/transfer", customer(http.HandlerFunc(s.transfer))).Methods(http.MethodPost)

	// Admin and auditor pages.
	r.Handle("/auditor-dashboard", privileged(http.HandlerFunc(s.auditorDashboard))).Methods(http.MethodGet)
	r.Handle("/deposit", privileged(http.HandlerFunc(s.depositPage))).Methods(http.MethodGet)
	r.Handle("/deposit", privileged(http.HandlerFunc(s.deposit))).Methods(http.MethodPost)

	// mux skips router middleware for the not-found handler.
	r.NotFoundHandler = middleware.RequestContext(middleware.Sessions(s.resolver)(http.HandlerFunc(s.notFound)))

	return securityHeaders(r)
}

func (s *Server) observeGuard(r *http.Request, guard string, d middleware.Decision) {
	s.metrics.ObserveGuard(guard, d.String())
	if d != middleware.Redirected {
		return
	}
	s.logger.Debug("guard redirect", "guard", guard, "path", r.URL.Path)
	s.emit(r, audit.Event{
		EventType: audit.GuardDenied,
		Guard:     guard,
		Path:      r.URL.Path,
	})
}

// emit fills request-scoped fields and queues event.
func (s *Server) emit(r *http.Request, event audit.Event) {
	if s.audit == nil {
		return
	}
	ctx := r.Context()
	if event.SessionID == "" {
		if c, err := r.Cookie(s.cookieName); err == nil {
			event.SessionID = c.Value
		}
	}
	event.RequestID = bankgate.RequestIDFromContext(ctx)
	event.IP = bankgate.ClientIPFromContext(ctx)
	s.audit.Emit(ctx, event)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", page{Title: "Home"})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found", page{Title: "Page Not Found"})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self'; img-src 'self' data: https: http:; "+
				"frame-ancestors 'none'; form-action 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
