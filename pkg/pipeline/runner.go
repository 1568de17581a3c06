package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/cache"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/disclosure"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/observability"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/network"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/nodelink"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

// keyTypeDocument labels cache events for rendered documents.
const keyTypeDocument = "document"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators; it doesn't store
// results. Multiple goroutines can use the same Runner as long as the Source
// and Cache are safe for concurrent use.
type Runner struct {
	Source snapshot.Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner reading snapshots from source.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(source snapshot.Source, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: source,
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Logger: logger,
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Load reads the snapshot for projectID.
func (r *Runner) Load(ctx context.Context, projectID string) (*snapshot.Snapshot, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, projectID)
	start := time.Now()

	snap, err := r.Source.Load(ctx, projectID)
	nodes := 0
	if snap != nil {
		nodes = len(snap.Graph.Nodes)
	}
	hooks.OnLoadComplete(ctx, projectID, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("loaded snapshot", "project", projectID, "generated", snap.Timestamp, "duration", time.Since(start))
	return snap, nil
}

// Build validates and decorates a loaded snapshot.
func (r *Runner) Build(ctx context.Context, snap *snapshot.Snapshot, opts Options) (*topology.Graph, *topology.Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, snap.ProjectID, len(snap.Graph.Nodes))
	start := time.Now()

	g, report, err := topology.Build(snap.Graph,
		topology.WithLevelPolicy(opts.Policy()),
		topology.WithLogger(r.Logger.With("project", snap.ProjectID)))
	dropped := 0
	if report != nil {
		dropped = len(report.Dropped)
	}
	hooks.OnBuildComplete(ctx, snap.ProjectID, dropped, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	if !report.Clean() {
		r.Logger.Warn("snapshot has problems",
			"project", snap.ProjectID,
			"dropped_edges", len(report.Dropped),
			"duplicate_ids", len(report.Duplicates),
			"defaulted_levels", len(report.Defaulted))
	}
	return g, report, nil
}

// Render runs the full pipeline for projectID. The document comes from the
// cache when the snapshot and options are unchanged and opts.Refresh is off.
func (r *Runner) Render(ctx context.Context, projectID string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Format: opts.Format}

	loadStart := time.Now()
	snap, err := r.Load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap
	result.Stats.LoadTime = time.Since(loadStart)

	buildStart := time.Now()
	g, report, err := r.Build(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Graph, result.Report = g, report
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.Stats.DroppedEdges = len(report.Dropped)

	renderStart := time.Now()
	doc, hit, err := r.renderCached(ctx, snap, g, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered snapshot",
		"project", projectID,
		"format", opts.Format,
		"cached", hit,
		"stats", result.Stats)
	return result, nil
}

func (r *Runner) renderCached(ctx context.Context, snap *snapshot.Snapshot, g *topology.Graph, opts Options) ([]byte, bool, error) {
	key, keyErr := r.documentKey(snap, opts)
	hooks := observability.Cache()

	if keyErr == nil && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, keyTypeDocument)
			return data, true, nil
		} else if err != nil {
			r.Logger.Debug("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeDocument)
	}

	doc, err := r.RenderGraph(ctx, snap.ProjectID, g, opts)
	if err != nil {
		return nil, false, err
	}

	if keyErr == nil {
		if err := r.Cache.Set(ctx, key, doc, DocumentTTL); err != nil {
			r.Logger.Debug("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeDocument, len(doc))
		}
	}
	return doc, false, nil
}

// RenderGraph renders an already built graph without touching the cache.
func (r *Runner) RenderGraph(ctx context.Context, projectID string, g *topology.Graph, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, projectID, opts.Format)
	start := time.Now()

	doc, err := render(ctx, g, opts)
	hooks.OnRenderComplete(ctx, projectID, opts.Format, len(doc), time.Since(start), err)
	return doc, err
}

func render(ctx context.Context, g *topology.Graph, opts Options) ([]byte, error) {
	if opts.Format == FormatHTML {
		return network.Render(g, opts.Network)
	}

	s := disclosure.NewSession(g)
	if opts.ExpandAll {
		s.ExpandAll()
	}
	dot := nodelink.ToDOT(s, opts.nodelinkOptions())

	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", opts.Format)
	}
}

func (r *Runner) documentKey(snap *snapshot.Snapshot, opts Options) (string, error) {
	data, err := graph.MarshalGraph(snap.Graph)
	if err != nil {
		return "", err
	}
	return r.Keyer.DocumentKey(snap.ProjectID, cache.DocumentKeyOpts{
		ModTime:   snap.ModTime,
		GraphHash: cache.Hash(data),
		Format:    opts.Format,
		Options:   opts,
	}), nil
}
