package snapshot

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
)

var fixedNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	return NewStore(dir,
		WithLogger(log.New(io.Discard)),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func sampleGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "p", Label: "demo", Level: graph.L(0), Size: 40, Color: "#4285F4", Title: "Proyecto: demo"},
			{ID: "cat1", Label: "BigQuery", Level: graph.L(1), Size: 30, Color: "#669DF6", Group: "bigquery"},
			{ID: "ds1", Label: "analytics", Level: graph.L(2), Size: 20, Color: "#AECBFA", Group: "dataset"},
		},
		Edges: []graph.Edge{
			{Source: "p", Target: "cat1"},
			{Source: "cat1", Target: "ds1", Label: "contains"},
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, t.TempDir())
	g := sampleGraph()

	path, err := s.Save(ctx, "demo", g)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "demo_gcp_data.json" {
		t.Errorf("path = %s, want demo_gcp_data.json", path)
	}

	snap, err := s.Load(ctx, "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(snap.Graph, g) {
		t.Errorf("graph mismatch\n got: %+v\nwant: %+v", snap.Graph, g)
	}
	if snap.Timestamp != "2025-06-01 10:30:00" {
		t.Errorf("Timestamp = %q, want human-readable form", snap.Timestamp)
	}
	if snap.GeneratedAt != fixedNow.Format(time.RFC3339Nano) {
		t.Errorf("GeneratedAt = %q", snap.GeneratedAt)
	}
	if snap.Version != FormatVersion {
		t.Errorf("Version = %q, want %q", snap.Version, FormatVersion)
	}
	if snap.ModTime.IsZero() {
		t.Error("ModTime should be set")
	}
}

func TestSaveWritesEnvelope(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newTestStore(t, dir)

	path, err := s.Save(ctx, "demo", sampleGraph())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	for _, key := range []string{"timestamp", "project_id", "data", "generated_at", "version"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}
	if !strings.Contains(string(data), "\n  \"project_id\": \"demo\"") {
		t.Errorf("expected indented output, got:\n%s", data)
	}
}

func TestSaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newTestStore(t, dir)

	if _, err := s.Save(ctx, "demo", sampleGraph()); err != nil {
		t.Fatal(err)
	}
	smaller := graph.Graph{
		Nodes: []graph.Node{{ID: "only", Level: graph.L(0)}},
		Edges: []graph.Edge{{Source: "only", Target: "only"}},
	}
	if _, err := s.Save(ctx, "demo", smaller); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Load(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Graph.Nodes) != 1 {
		t.Errorf("nodes = %d, want 1 after overwrite", len(snap.Graph.Nodes))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory should hold only the snapshot, got %v", names)
	}
}

func TestSaveErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidProject", func(t *testing.T) {
		s := newTestStore(t, t.TempDir())
		_, err := s.Save(ctx, "../escape", sampleGraph())
		if !errors.Is(err, errors.ErrCodeInvalidProject) {
			t.Errorf("err = %v, want INVALID_PROJECT", err)
		}
	})

	t.Run("DirectoryIsAFile", func(t *testing.T) {
		base := t.TempDir()
		blocker := filepath.Join(base, "blocker")
		writeFile(t, blocker, "not a directory")

		s := newTestStore(t, filepath.Join(blocker, "snapshots"))
		_, err := s.Save(ctx, "demo", sampleGraph())
		if !errors.Is(err, errors.ErrCodeIO) {
			t.Errorf("err = %v, want IO_ERROR", err)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newTestStore(t, dir)

	writeFile(t, filepath.Join(dir, "nodata_gcp_data.json"), `{"timestamp": "2025-01-01 00:00:00", "project_id": "nodata"}`)
	writeFile(t, filepath.Join(dir, "nulldata_gcp_data.json"), `{"data": null}`)
	writeFile(t, filepath.Join(dir, "broken_gcp_data.json"), `{"data": {"nodes": [`)

	tests := []struct {
		name    string
		project string
		code    errors.Code
	}{
		{"Missing", "absent", errors.ErrCodeNotFound},
		{"NoData", "nodata", errors.ErrCodeInvalidFormat},
		{"NullData", "nulldata", errors.ErrCodeInvalidFormat},
		{"Malformed", "broken", errors.ErrCodeParse},
		{"BadID", "a/b", errors.ErrCodeInvalidProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := s.Load(ctx, tt.project)
			if snap != nil {
				t.Errorf("expected nil snapshot, got %+v", snap)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadNotFoundMessage(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	_, err := s.Load(context.Background(), "demo")
	if got := errors.UserMessage(err); got != "no cache file for project 'demo'" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestLoadToleratesExtraFieldsAndMissingTimestamp(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	writeFile(t, filepath.Join(dir, "demo_gcp_data.json"), `{
		"project_id": "demo",
		"owner": "data-team",
		"data": {
			"nodes": [{"id": "p", "label": "demo", "level": 0, "size": 40, "color": "#000", "x": 1}],
			"edges": [{"source": "p", "target": "p", "dashes": true}]
		}
	}`)

	snap, err := s.Load(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Timestamp != NoTimestamp {
		t.Errorf("Timestamp = %q, want %q", snap.Timestamp, NoTimestamp)
	}
	if len(snap.Graph.Nodes) != 1 || len(snap.Graph.Edges) != 1 {
		t.Errorf("graph = %+v", snap.Graph)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, t.TempDir())
	if _, err := s.Save(ctx, "demo", sampleGraph()); err != nil {
		t.Fatal(err)
	}

	first, err := s.Load(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Load(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated loads should return identical snapshots")
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, t.TempDir())
	if s.Exists("demo") {
		t.Error("Exists before save = true")
	}
	if _, err := s.Save(ctx, "demo", sampleGraph()); err != nil {
		t.Fatal(err)
	}
	if !s.Exists("demo") {
		t.Error("Exists after save = false")
	}
	if s.Exists("../demo") {
		t.Error("Exists should reject invalid ids")
	}
}

func TestLiveSource(t *testing.T) {
	_, err := LiveSource{}.Load(context.Background(), "demo")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestNewSource(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	src, err := NewSource("", store)
	if err != nil || src != Source(store) {
		t.Errorf("NewSource(\"\") = %v, %v; want store", src, err)
	}
	if _, err := NewSource(SourceCache, nil); err == nil {
		t.Error("cache source without store should fail")
	}
	if src, err := NewSource(SourceLive, nil); err != nil {
		t.Errorf("NewSource(live) error: %v", err)
	} else if _, ok := src.(LiveSource); !ok {
		t.Errorf("NewSource(live) = %T", src)
	}
	if _, err := NewSource("bigquery", store); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown source err = %v", err)
	}
}
