// ABOUTME: HTTP server for the sketchpad workspace: chi router, embedded shell, JSON API, SSE.
// ABOUTME: Wires the file store, preview compositor, session store, and snapshot persistence together.
package web

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389-research/sketchpad/compose"
	"github.com/2389-research/sketchpad/store"
	"github.com/2389-research/sketchpad/workspace"
)

// Server hosts the workspace shell and its JSON API. One server means one
// shared workspace; browser tabs get their own sessions on top of it.
type Server struct {
	router      chi.Router
	ws          *workspace.Store
	comp        *compose.Compositor
	sessions    *SessionStore
	templates   *TemplateEngine
	snaps       workspace.SnapshotStore
	stopCleanup func()
}

// NewServer creates a new Server with the given configuration. It opens
// the snapshot backend, loads the workspace from it, and sets up routing.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Bind == "" {
		cfg.Bind = DefaultBind
	}
	if cfg.Backend == "" {
		cfg.Backend = "file"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DataDir must not be empty")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	snaps, err := openSnapshots(cfg)
	if err != nil {
		return nil, err
	}

	ws := workspace.Load(snaps)
	log.Printf("component=web action=load_workspace backend=%s files=%d", cfg.Backend, ws.Len())

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	sessions := NewSessionStore(200, 24*time.Hour)

	s := &Server{
		ws:    ws,
		snaps: snaps,
		comp: compose.New(compose.Names{
			Entry:      workspace.EntryName,
			Stylesheet: workspace.StylesheetName,
			Script:     workspace.ScriptName,
		}),
		sessions:    sessions,
		templates:   tmpl,
		stopCleanup: sessions.StartCleanup(time.Hour),
	}

	s.router = s.buildRouter(cfg)
	return s, nil
}

// openSnapshots builds the persistence collaborator for the configured
// backend.
func openSnapshots(cfg Config) (workspace.SnapshotStore, error) {
	switch cfg.Backend {
	case "file":
		return store.NewFileSnapshots(filepath.Join(cfg.DataDir, "snapshots")), nil
	case "sqlite":
		snaps, err := store.OpenSqlite(filepath.Join(cfg.DataDir, "sketchpad.db"))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		return snaps, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want file or sqlite)", cfg.Backend)
	}
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background cleanup and releases the snapshot backend.
func (s *Server) Close() error {
	s.stopCleanup()
	s.ws.Events().Close()
	if closer, ok := s.snaps.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter(cfg Config) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(webRequestLogger)
	r.Use(middleware.Recoverer)
	if cfg.AuthToken != "" {
		r.Use(requireToken(cfg.AuthToken))
	}

	// Top-level routes
	r.Get("/", s.handleShell)
	r.Get("/health", s.handleHealth)
	r.Get("/guide", s.handleGuide)
	r.Get("/export.yaml", s.handleExportYAML)
	r.Post("/import", s.handleImportYAML)
	r.Get("/events", s.handleEvents)

	// Shell static assets served from the embedded filesystem.
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Printf("WARNING: failed to create static sub-FS: %v", err)
	} else {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
	}

	// Session routes
	r.Post("/sessions", s.handleCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleSessionState)
		r.Get("/preview", s.handlePreview)

		r.Post("/files", s.handleFileCreate)
		r.Post("/files/update", s.handleFileUpdate)
		r.Post("/files/rename", s.handleFileRename)
		r.Post("/files/delete", s.handleFileDelete)

		r.Post("/open", s.handleOpenFile)
		r.Post("/close", s.handleCloseFile)
		r.Post("/active", s.handleActivate)

		r.Post("/run", s.handleRun)
		r.Post("/reset", s.handleReset)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
	})

	return r
}
