// Package web provides the HTTP server for the ledger dashboard.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/ledgerview/internal/auth"
	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/export"
	"github.com/JonMunkholm/ledgerview/internal/invoice"
	"github.com/JonMunkholm/ledgerview/internal/store"
	mw "github.com/JonMunkholm/ledgerview/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// History lists past export runs for the admin page.
type History interface {
	Recent(ctx context.Context, limit int) ([]store.RunSummary, error)
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Service   *core.Service
	Renderers map[invoice.Format]invoice.Renderer
	Exporters map[invoice.Format]*export.Exporter
	Sessions  *auth.Sessions
	History   History // nil when export history is disabled
}

// Server is the HTTP server for the dashboard.
type Server struct {
	Deps
	cfg           *config.Config
	defaultFormat invoice.Format
	router        *chi.Mux
	server        *http.Server
}

// NewServer creates a Server with routes and middleware configured from cfg.
func NewServer(deps Deps, cfg *config.Config) *Server {
	format, err := invoice.ParseFormat(cfg.Invoice.Format)
	if err != nil {
		format = invoice.PNG
	}

	s := &Server{
		Deps:          deps,
		cfg:           cfg,
		defaultFormat: format,
		router:        chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/healthz", s.handleHealth)

	// Pages and API share the request timeout. Exports carry their own.
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

		r.Get("/", s.handleDashboard)
		r.Get("/api/records", s.handleRecordsAPI)

		r.Get("/admin/login", s.handleLoginPage)
		r.Post("/admin/login", s.handleLogin)
		r.Post("/admin/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin(s.Sessions, "/admin/login"))
			r.Get("/admin", s.handleAdmin)
			r.Get("/admin/invoice/{row}", s.handleInvoice)
		})
	})

	s.router.Group(func(r chi.Router) {
		r.Use(mw.RequireAdmin(s.Sessions, "/admin/login"))
		if s.cfg.Rate.Enabled {
			r.Use(newRateLimiter(s.cfg.Rate.ExportLimit, time.Minute).middleware)
		}
		r.Get("/admin/"+export.ArchiveName, s.handleExport)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// formats lists the enabled invoice formats, default first.
func (s *Server) formats() []string {
	out := []string{string(s.defaultFormat)}
	for _, f := range []invoice.Format{invoice.PNG, invoice.PDF} {
		if _, ok := s.Renderers[f]; ok && f != s.defaultFormat {
			out = append(out, string(f))
		}
	}
	return out
}

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if csp {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; form-action 'self'")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
