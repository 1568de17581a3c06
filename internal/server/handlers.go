package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	data := indexData{
		Project: s.project,
		Dir:     s.store.Dir(),
		Entries: entries,
	}
	if err != nil {
		s.logger.Warn("catalog unavailable", "err", err)
		data.CatalogError = errors.UserMessage(err)
	}
	writePage(w, http.StatusOK, indexPage, data)
}

// handleViewQuery serves the form target /view?project=<id>.
func (s *Server) handleViewQuery(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("project"))
	if projectID == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.view(w, r, projectID)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, projectParam(r))
}

func (s *Server) view(w http.ResponseWriter, r *http.Request, projectID string) {
	doc, err := s.document(r.Context(), projectID)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("render failed", "project", projectID, "err", err)
		}
		writePage(w, status, emptyPage, emptyData{
			Project: projectID,
			Code:    string(errors.GetCode(err)),
			Message: errors.UserMessage(err),
			Missing: errors.Is(err, errors.ErrCodeNotFound),
		})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	resp := catalogResponse{Dir: s.store.Dir(), Snapshots: entries}
	if resp.Snapshots == nil {
		resp.Snapshots = []snapshot.Entry{}
	}
	if err != nil {
		s.logger.Warn("catalog unavailable", "err", err)
		resp.Error = errors.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	projectID := projectParam(r)
	snap, err := s.runner.Load(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	g, report, err := s.runner.Build(r.Context(), snap, s.render)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummary(snap, g, report))
}

// projectParam returns the unescaped {project} path segment.
func projectParam(r *http.Request) string {
	raw := chi.URLParam(r, "project")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// =============================================================================
// JSON
// =============================================================================

type catalogResponse struct {
	Dir       string           `json:"dir"`
	Snapshots []snapshot.Entry `json:"snapshots"`
	Error     string           `json:"error,omitempty"`
}

type summaryResponse struct {
	ProjectID    string         `json:"project_id"`
	Timestamp    string         `json:"timestamp"`
	GeneratedAt  string         `json:"generated_at,omitempty"`
	Version      string         `json:"version,omitempty"`
	Nodes        int            `json:"nodes"`
	Edges        int            `json:"edges"`
	Levels       map[string]int `json:"levels"`
	InitialNodes int            `json:"initial_nodes"`
	InitialEdges int            `json:"initial_edges"`
	Expandable   int            `json:"expandable"`
	DroppedEdges []string       `json:"dropped_edges"`
	Duplicates   []string       `json:"duplicate_ids"`
	Defaulted    []string       `json:"defaulted_levels"`
}

func newSummary(snap *snapshot.Snapshot, g *topology.Graph, report *topology.Report) summaryResponse {
	stats := g.Stats()
	levels := make(map[string]int, len(stats.ByLevel))
	for level, n := range stats.ByLevel {
		levels[topology.LevelName(level)] = n
	}

	dropped := make([]string, len(report.Dropped))
	for i, d := range report.Dropped {
		dropped[i] = errors.UserMessage(d.Err())
	}

	return summaryResponse{
		ProjectID:    snap.ProjectID,
		Timestamp:    snap.Timestamp,
		GeneratedAt:  snap.GeneratedAt,
		Version:      snap.Version,
		Nodes:        stats.Nodes,
		Edges:        stats.Edges,
		Levels:       levels,
		InitialNodes: stats.InitialNodes,
		InitialEdges: stats.InitialEdges,
		Expandable:   stats.Expandable,
		DroppedEdges: dropped,
		Duplicates:   nonNil(report.Duplicates),
		Defaulted:    nonNil(report.Defaulted),
	}
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorResponse{Code: string(code), Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
