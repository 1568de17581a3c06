package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/observability"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

const rawGraph = `{
  "nodes": [
    {"id": "demo", "label": "demo", "level": 0, "size": 40, "color": "#4285F4"},
    {"id": "bq", "label": "BigQuery", "level": 1, "size": 30, "color": "#34A853"},
    {"id": "ds", "label": "sales", "level": 2, "size": 20, "color": "#FBBC05"},
    {"id": "tbl", "label": "orders", "level": 3, "size": 10, "color": "#EA4335"}
  ],
  "edges": [
    {"source": "demo", "target": "bq"},
    {"source": "bq", "target": "ds"},
    {"source": "ds", "target": "tbl"},
    {"source": "ds", "target": "ghost"}
  ]
}`

// testEnv isolates config, cache and snapshot directories.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envSnapshotDir, "")
	t.Cleanup(observability.Reset)
	return t.TempDir()
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func importSample(t *testing.T, dir string) {
	t.Helper()
	input := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(input, []byte(rawGraph), 0644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--dir", dir, "import", input, "--project", "demo"); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func TestImportCommand(t *testing.T) {
	dir := testEnv(t)
	importSample(t, dir)

	data, err := os.ReadFile(filepath.Join(dir, snapshot.Filename("demo")))
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	var env snapshot.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if env.ProjectID != "demo" || env.Data == nil || len(env.Data.Nodes) != 4 {
		t.Errorf("envelope = %+v", env)
	}
}

func TestImportCommandRequiresProject(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(input, []byte(rawGraph), 0644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--dir", dir, "import", input); err == nil {
		t.Error("import without --project should fail")
	}
}

func TestRenderCommandHTML(t *testing.T) {
	dir := testEnv(t)
	importSample(t, dir)
	out := filepath.Join(t.TempDir(), "view.html")

	if err := execute(t, "--dir", dir, "render", "demo", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "gcpmapDisclosure", "BigQuery"} {
		if !bytes.Contains(doc, []byte(want)) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderCommandDOT(t *testing.T) {
	dir := testEnv(t)
	importSample(t, dir)
	out := filepath.Join(t.TempDir(), "view.dot")

	if err := execute(t, "--dir", dir, "render", "demo", "-f", "dot", "--expand-all", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(doc), "digraph") || !strings.Contains(string(doc), "orders") {
		t.Errorf("DOT output missing graph or expanded table:\n%s", doc)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := testEnv(t)
	importSample(t, dir)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing snapshot", []string{"render", "nope", "--no-cache"}, errors.ErrCodeNotFound},
		{"bad format", []string{"render", "demo", "-f", "pdf"}, errors.ErrCodeInvalidInput},
		{"bad level policy", []string{"render", "demo", "--level-policy", "sideways"}, errors.ErrCodeInvalidInput},
		{"bad project id", []string{"show", "../etc"}, errors.ErrCodeInvalidProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, append([]string{"--dir", dir}, tt.args...)...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestShowAndListCommands(t *testing.T) {
	dir := testEnv(t)
	importSample(t, dir)

	if err := execute(t, "--dir", dir, "show", "demo"); err != nil {
		t.Errorf("show: %v", err)
	}
	if err := execute(t, "--dir", dir, "list"); err != nil {
		t.Errorf("list: %v", err)
	}
	if err := execute(t, "--dir", filepath.Join(dir, "missing"), "list", "--json"); err != nil {
		t.Errorf("list of a missing dir: %v", err)
	}
}

func TestDefaultProjectFromConfig(t *testing.T) {
	dir := testEnv(t)
	importSample(t, dir)
	cfg := writeConfig(t, "default_project = \"demo\"\nsnapshot_dir = \""+filepath.ToSlash(dir)+"\"\n")

	if err := execute(t, "--config", cfg, "show"); err != nil {
		t.Errorf("show with default_project: %v", err)
	}
}

func TestSnapshotDirFromEnv(t *testing.T) {
	dir := testEnv(t)
	importSample(t, dir)
	t.Setenv(envSnapshotDir, dir)

	if err := execute(t, "show", "demo"); err != nil {
		t.Errorf("show with %s: %v", envSnapshotDir, err)
	}
}

func TestWriteCatalogJSON(t *testing.T) {
	var buf bytes.Buffer
	entries := []snapshot.Entry{{ProjectID: "demo", Filename: snapshot.Filename("demo"), SizeKB: 1.5}}
	if err := writeCatalogJSON(&buf, "/snapshots", entries); err != nil {
		t.Fatal(err)
	}

	var got catalogJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Dir != "/snapshots" || len(got.Snapshots) != 1 || got.Snapshots[0].ProjectID != "demo" {
		t.Errorf("catalog = %+v", got)
	}
}

func TestCatalogTable(t *testing.T) {
	out := catalogTable([]snapshot.Entry{{ProjectID: "alpha", SizeKB: 2}, {ProjectID: "beta", SizeKB: 0.5}})
	for _, want := range []string{"Project", "alpha", "beta", "2.00 KB", "0.50 KB"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalogTable() missing %q:\n%s", want, out)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	if got := defaultOutput("demo", "html"); got != "demo_network.html" {
		t.Errorf("defaultOutput() = %q", got)
	}
	if got := defaultOutput("demo", "svg"); got != "demo_network.svg" {
		t.Errorf("defaultOutput() = %q", got)
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8501"); got != "localhost:8501" {
		t.Errorf("displayAddr(:8501) = %q", got)
	}
	if got := displayAddr("127.0.0.1:9000"); got != "127.0.0.1:9000" {
		t.Errorf("displayAddr(127.0.0.1:9000) = %q", got)
	}
}
