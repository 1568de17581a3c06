// Package server is the HTTP shell of gcpmap: a project-id input page, the
// snapshot catalog, and the rendered progressive-disclosure view.
//
// Routes:
//
//	GET /                         project-id form and catalog
//	GET /view?project=<id>        rendered document for <id>
//	GET /view/{project}           same, path form
//	GET /api/snapshots            catalog JSON
//	GET /api/snapshots/{project}  graph summary JSON
//	GET /healthz                  liveness
//
// A project that cannot be shown (no snapshot, malformed file, no data)
// gets an informative empty-state page: 404 when the snapshot does not
// exist, 422 when it exists but cannot be used.
//
// Rendered documents are memoized per project in an LRU. An entry is reused
// only while the snapshot file keeps the modification time it was rendered
// from; [Server.Watch] also drops entries as soon as files change.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/buildinfo"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/observability"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/pipeline"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

// DefaultMemoSize is the number of rendered documents kept in memory.
const DefaultMemoSize = 64

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Render is applied to every document. The format is always html.
	Render pipeline.Options
	// DefaultProject pre-fills the input on the index page.
	DefaultProject string
	// MemoSize caps the document memo; zero means DefaultMemoSize.
	MemoSize int
	Logger   *log.Logger
}

// Server serves snapshots from one store.
type Server struct {
	store   *snapshot.Store
	runner  *pipeline.Runner
	render  pipeline.Options
	project string
	memo    *lru.Cache[string, memoEntry]
	logger  *log.Logger
	router  chi.Router
}

type memoEntry struct {
	modTime time.Time
	doc     []byte
}

// New creates a server reading snapshots from store through runner.
func New(store *snapshot.Store, runner *pipeline.Runner, opts Options) (*Server, error) {
	render := opts.Render
	render.Format = pipeline.FormatHTML
	if err := render.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	size := opts.MemoSize
	if size <= 0 {
		size = DefaultMemoSize
	}
	memo, err := lru.New[string, memoEntry](size)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		store:   store,
		runner:  runner,
		render:  render,
		project: opts.DefaultProject,
		memo:    memo,
		logger:  logger.WithPrefix("server"),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/view", s.handleViewQuery)
	r.Get("/view/{project}", s.handleView)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshots", s.handleCatalog)
		r.Get("/snapshots/{project}", s.handleSummary)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Invalidate drops the memoized document for projectID.
func (s *Server) Invalidate(projectID string) bool {
	return s.memo.Remove(projectID)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "dir", s.store.Dir())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// document returns the rendered page for projectID, from the memo when the
// snapshot file is unchanged.
func (s *Server) document(ctx context.Context, projectID string) ([]byte, error) {
	if err := errors.ValidateProjectID(projectID); err != nil {
		return nil, err
	}

	if info, err := os.Stat(s.store.Path(projectID)); err == nil {
		if e, ok := s.memo.Get(projectID); ok && e.modTime.Equal(info.ModTime()) {
			s.logger.Debug("memo hit", "project", projectID)
			return e.doc, nil
		}
	}

	opts := s.render
	opts.Network.Heading = projectID
	res, err := s.runner.Render(ctx, projectID, opts)
	if err != nil {
		s.memo.Remove(projectID)
		return nil, err
	}
	s.memo.Add(projectID, memoEntry{modTime: res.Snapshot.ModTime, doc: res.Document})
	return res.Document, nil
}

// instrument reports every request to the server hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Server().OnRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// statusFor maps an error code to the HTTP status of its empty state.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidFormat, errors.ErrCodeParse, errors.ErrCodeEmptyGraph:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidProject, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
