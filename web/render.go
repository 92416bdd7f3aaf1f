package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/bankgate"
	"github.com/MrEthical07/bankgate/gateway"
	"github.com/MrEthical07/bankgate/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var pageFiles = []string{
	"home",
	"login",
	"logout",
	"register",
	"forgot_password",
	"reset_password",
	"profile",
	"update_profile",
	"transactions",
	"transfer",
	"deposit",
	"auditor_dashboard",
	"not_found",
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"abs":   math.Abs,
	"lower": strings.ToLower,
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
	"date":  formatDate,
	"recent": func(txs []gateway.Transaction, n int) []gateway.Transaction {
		if len(txs) > n {
			return txs[:n]
		}
		return txs
	},
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// formatDate renders an API timestamp as a calendar date, or the raw value when it is in
// an unknown layout.
func formatDate(raw string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

type navState struct {
	Authenticated bool
	Privileged    bool
	Subject       string
}

// page is the data every template receives.
type page struct {
	Title     string
	LoginPath string
	Nav       navState
	Error     string
	Success   string
	Form      any
	Errors    map[string]string
	Data      any
}

func (s *Server) nav(r *http.Request) navState {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)
	n := navState{
		Authenticated: bankgate.IsAuthenticated(ctx, sess),
		Privileged:    bankgate.IsPrivileged(ctx, sess),
	}
	if token, ok := sess.CurrentToken(ctx); ok {
		n.Subject = gateway.TokenSubject(token)
	}
	return n
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.logger.Error("unknown page", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	p.Nav = s.nav(r)
	p.LoginPath = s.loginPath
	if p.Errors == nil {
		p.Errors = map[string]string{}
	}
	if p.Form == nil {
		p.Form = struct{}{}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.logger.Error("render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
