package pipeline

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/cache"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/observability"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func demoGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "p", Label: "demo", Level: graph.L(0), Size: 40, Color: "#4285F4"},
			{ID: "cat1", Label: "BigQuery", Level: graph.L(1), Size: 30, Color: "#669DF6"},
			{ID: "ds1", Label: "analytics", Level: graph.L(2), Size: 20, Color: "#AECBFA"},
		},
		Edges: []graph.Edge{
			{Source: "p", Target: "cat1"},
			{Source: "cat1", Target: "ds1"},
			{Source: "cat1", Target: "missing"},
		},
	}
}

func newStore(t *testing.T) *snapshot.Store {
	t.Helper()
	s := snapshot.NewStore(t.TempDir(), snapshot.WithLogger(quietLogger()))
	if _, err := s.Save(context.Background(), "demo", demoGraph()); err != nil {
		t.Fatal(err)
	}
	return s
}

// memCache is an in-memory Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"html", false},
		{"svg", false},
		{"dot", false},
		{"png", true},
		{"HTML", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Format != FormatHTML || o.LevelPolicy != "root" || o.Network.Height == "" {
		t.Errorf("defaults = %+v", o)
	}

	bad := Options{LevelPolicy: "sideways"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad policy err = %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newStore(t), nil, quietLogger())

	result, err := r.Render(ctx, "demo", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(result.Document), "gcpmapDisclosure") {
		t.Error("document should embed the disclosure script")
	}
	if result.CacheHit {
		t.Error("null cache should never hit")
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 || result.Stats.DroppedEdges != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Snapshot.ProjectID != "demo" || result.Report == nil || result.Graph == nil {
		t.Errorf("result = %+v", result)
	}
}

func TestRenderDOT(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newStore(t), nil, quietLogger())

	result, err := r.Render(ctx, "demo", Options{Format: FormatDOT})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(result.Document), `"ds1"`) {
		t.Error("collapsed export should not include hidden nodes")
	}

	result, err = r.Render(ctx, "demo", Options{Format: FormatDOT, ExpandAll: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(result.Document), `"cat1" -> "ds1"`) {
		t.Errorf("expanded export missing child edge:\n%s", result.Document)
	}
}

func TestRenderUsesCache(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	c := newMemCache()
	r := NewRunner(store, c, quietLogger())

	first, err := r.Render(ctx, "demo", Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(ctx, "demo", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("CacheHit = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}
	if string(first.Document) != string(second.Document) {
		t.Error("cached document differs")
	}

	refreshed, err := r.Render(ctx, "demo", Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	other, err := r.Render(ctx, "demo", Options{Format: FormatDOT})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("different options should not share a cache entry")
	}

	changed := demoGraph()
	changed.Nodes[1].Label = "Storage"
	if _, err := store.Save(ctx, "demo", changed); err != nil {
		t.Fatal(err)
	}
	updated, err := r.Render(ctx, "demo", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if updated.CacheHit || !strings.Contains(string(updated.Document), "Storage [1]") {
		t.Error("a new snapshot should produce a new document")
	}
}

func TestRenderErrors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if _, err := store.Save(ctx, "empty", graph.Graph{Nodes: []graph.Node{{ID: "a"}}}); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(store, nil, quietLogger())

	tests := []struct {
		name    string
		project string
		opts    Options
		code    errors.Code
	}{
		{"NotFound", "absent", Options{}, errors.ErrCodeNotFound},
		{"EmptyGraph", "empty", Options{}, errors.ErrCodeEmptyGraph},
		{"BadFormat", "demo", Options{Format: "pdf"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Render(ctx, tt.project, tt.opts)
			if result != nil {
				t.Error("expected no result")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderLiveSourceUnsupported(t *testing.T) {
	r := NewRunner(snapshot.LiveSource{}, nil, quietLogger())
	_, err := r.Render(context.Background(), "demo", Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.record("load") }
func (h *recordingHooks) OnBuildStart(context.Context, string, int) {
	h.record("build")
}
func (h *recordingHooks) OnRenderStart(context.Context, string, string) { h.record("render") }

func TestRenderReportsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)

	r := NewRunner(newStore(t), nil, quietLogger())
	if _, err := r.Render(context.Background(), "demo", Options{}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(hooks.events, ","); got != "load,build,render" {
		t.Errorf("events = %s", got)
	}
}

var _ cache.Cache = (*memCache)(nil)
