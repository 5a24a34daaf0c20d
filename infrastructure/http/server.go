package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	sessioncontext "tablegen/frontend/shared/context"
	"tablegen/frontend/table"
	"tablegen/infrastructure/audit"
	"tablegen/infrastructure/cache"
	"tablegen/infrastructure/images"
	sessioncookie "tablegen/infrastructure/session"
	"tablegen/infrastructure/sqlite"
	"tablegen/infrastructure/worksheet"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// Config holds deployment switches read at startup.
type Config struct {
	ExportFileName       string
	AllowSelectionCancel bool
	GuardBlanks          bool
	WorkspaceIdle        time.Duration
}

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	Config     Config
	DB         *sqlite.DB
	Workspaces *cache.WorkspaceCache
	Audit      *audit.Service
	Exporter   *table.Exporter
	Images     *images.Loader
}

// NewServer creates a new http server.
func NewServer(addr string, cfg Config, db *sqlite.DB, workspaces *cache.WorkspaceCache, auditSvc *audit.Service) *Server {
	if cfg.ExportFileName == "" {
		cfg.ExportFileName = "table.pdf"
	}
	s := &Server{
		Addr:       addr,
		router:     chi.NewRouter(),
		Config:     cfg,
		DB:         db,
		Workspaces: workspaces,
		Audit:      auditSvc,
		server: &http.Server{
			MaxHeaderBytes: 1 << 20,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/table", http.StatusSeeOther)
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve assets from embedded FS. The same tree feeds the PDF letterhead and default signature.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.Images = images.NewLoader(assetsFS)
	s.Exporter = table.NewExporter(s.Images, cfg.GuardBlanks)

	s.router.Group(func(r chi.Router) {
		r.Use(s.WorkspaceMiddleware)
		s.RegisterTableRoutes(r)
	})
	s.RegisterExportRoutes(s.router)
	s.RegisterHelpRoutes(s.router)

	s.server.Handler = s.router
	return s
}

// WorkspaceMiddleware resolves the caller's worksheet from its cookie,
// creating a fresh one when the cookie is missing or unknown.
func (s *Server) WorkspaceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		var ws *worksheet.Workspace
		if c, err := r.Cookie(sessioncookie.CookieName); err == nil && c.Value != "" {
			if found, ok := s.Workspaces.FindByToken(c.Value, now); ok {
				ws = found
			}
		}
		if ws == nil {
			ws = worksheet.NewWorkspace(sessioncookie.NewToken(), now, worksheet.Options{
				AllowSelectionCancel: s.Config.AllowSelectionCancel,
			})
			s.Workspaces.Add(ws, now)
			http.SetCookie(w, sessioncookie.WorkspaceCookie(ws.Token, 0))
			slog.Info("workspace created", slog.String("path", r.URL.Path), slog.Int("workspaces", s.Workspaces.Len()))
		}

		ctx := sessioncontext.NewContextWithWorkspace(r.Context(), ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
