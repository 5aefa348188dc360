package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/lencelabs/lence/internal/pages"
	"github.com/lencelabs/lence/internal/service"
)

// queryRequest is the wire shape of a query execution request. The frontend
// always sends every field; the service decides which to honor based on its
// mode.
type queryRequest struct {
	Page   string         `json:"page"`
	Query  string         `json:"query"`
	Params map[string]any `json:"params"`
	Source string         `json:"source,omitempty"`
	SQL    string         `json:"sql,omitempty"`
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	dec := json.NewDecoder(r.Body)
	// Numbers keep their lexical form so integer parameters interpolate as
	// integer literals.
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  service.KindInvalidParameters,
			Detail: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	result, err := s.svc.Execute(r.Context(), service.Request{
		Page:   req.Page,
		Query:  req.Query,
		Params: req.Params,
		Source: req.Source,
		SQL:    req.SQL,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.ListSources())
}

func (s *Server) handleDescribeSource(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.DescribeSource(r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	// An explicit menu.yaml wins; otherwise the menu derives from the pages
	// directory on every request so dev-mode edits show up immediately.
	if len(s.cfg.Menu) > 0 {
		writeJSON(w, http.StatusOK, s.cfg.Menu)
		return
	}

	menu, err := pages.BuildMenu(s.project.PagesDir())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	reqPath := strings.TrimSuffix(r.PathValue("path"), ".md")

	file, ok := pages.Resolve(s.project.PagesDir(), reqPath)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:  service.KindNotFound,
			Detail: fmt.Sprintf("page not found: %s", reqPath),
		})
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	http.ServeFile(w, r, file)
}

// writeError maps a failure onto the wire: structured errors keep their kind
// and map NotFound to 404, everything else in the taxonomy to 400. Anything
// unstructured is an internal fault.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if se, ok := service.AsError(err); ok {
		status := http.StatusBadRequest
		if se.Kind == service.KindNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorBody{Error: se.Kind, Detail: se.Detail})
		return
	}

	s.logger.Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "INTERNAL_ERROR", Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
