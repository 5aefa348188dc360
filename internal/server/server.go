// Package server exposes the HTTP API: query execution, source listing, the
// navigation menu, raw markdown pages, and the SPA shell.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lencelabs/lence/internal/config"
	"github.com/lencelabs/lence/internal/service"
	"github.com/lencelabs/lence/internal/webui"
)

// Server wires the query service and project layout into an http.Handler.
type Server struct {
	project config.Project
	cfg     *config.Config
	svc     *service.Service
	logger  *slog.Logger
	mux     *http.ServeMux
}

// New constructs a Server for a project.
func New(project config.Project, cfg *config.Config, svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	s := &Server{
		project: project,
		cfg:     cfg,
		svc:     svc,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/query", s.handleQuery)
	s.mux.HandleFunc("GET /api/sources", s.handleListSources)
	s.mux.HandleFunc("GET /api/sources/{name}", s.handleDescribeSource)
	s.mux.HandleFunc("GET /api/config/menu", s.handleMenu)
	s.mux.HandleFunc("GET /pages/{path...}", s.handlePage)

	if info, err := os.Stat(project.StaticDir()); err == nil && info.IsDir() {
		s.mux.Handle("GET /static/",
			http.StripPrefix("/static/", http.FileServer(http.Dir(project.StaticDir()))))
	}

	// Everything else falls through to the SPA shell.
	s.mux.HandleFunc("/", s.handleSPA)

	return s
}

// Handler returns the root handler with request logging attached.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// handleSPA serves the project's static/index.html when present, otherwise
// the bundled default template.
func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request) {
	projectIndex := filepath.Join(s.project.StaticDir(), "index.html")
	if _, err := os.Stat(projectIndex); err == nil {
		http.ServeFile(w, r, projectIndex)
		return
	}

	data, err := webui.FS.ReadFile("index.html")
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: service.KindNotFound, Detail: "index.html not found"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
