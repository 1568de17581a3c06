package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/network"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("", log.New(io.Discard))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty for defaults", cfg.Path)
	}
	if cfg.Server.Addr != defaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, defaultServerAddr)
	}
	if cfg.Physics != network.DefaultPhysics() {
		t.Errorf("Physics = %+v, want defaults", cfg.Physics)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), log.New(io.Discard))
	if err == nil {
		t.Fatal("loadConfig() with a missing explicit file should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
snapshot_dir = "/data/snapshots"
default_project = "acme-prod"
level_policy = "isolate"

[render]
height = "900px"
background = "#101010"

[physics]
spring_length = 250
iterations = 300

[server]
watch = true
`)

	cfg, err := loadConfig(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.SnapshotDir != "/data/snapshots" || cfg.DefaultProject != "acme-prod" || cfg.LevelPolicy != "isolate" {
		t.Errorf("top-level keys not decoded: %+v", cfg)
	}
	if !cfg.Server.Watch {
		t.Error("Server.Watch should be true")
	}
	if cfg.Server.Addr != defaultServerAddr {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, defaultServerAddr)
	}

	// Physics keys the file omits keep their defaults.
	want := network.DefaultPhysics()
	want.SpringLength = 250
	want.Iterations = 300
	if cfg.Physics != want {
		t.Errorf("Physics = %+v, want %+v", cfg.Physics, want)
	}

	opts := cfg.networkOptions()
	if opts.Height != "900px" || opts.Background != "#101010" {
		t.Errorf("networkOptions() = %+v, render overrides missing", opts)
	}
	if opts.Width != network.DefaultOptions().Width {
		t.Errorf("networkOptions().Width = %q, want default", opts.Width)
	}
	if opts.Physics.SpringLength != 250 {
		t.Errorf("networkOptions().Physics.SpringLength = %v, want 250", opts.Physics.SpringLength)
	}
}

func TestLoadConfigUnknownKeys(t *testing.T) {
	path := writeConfig(t, "snapshot_dir = \"x\"\ncolour = \"red\"\n")

	var buf bytes.Buffer
	if _, err := loadConfig(path, log.New(&buf)); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if !strings.Contains(buf.String(), "colour") {
		t.Errorf("unknown key should be logged, got %q", buf.String())
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "snapshot_dir = \n")

	if _, err := loadConfig(path, log.New(io.Discard)); err == nil {
		t.Fatal("loadConfig() with malformed TOML should fail")
	}
}

func TestResolveSnapshotDir(t *testing.T) {
	cfg := &Config{SnapshotDir: "/from/config"}

	tests := []struct {
		name string
		flag string
		env  string
		cfg  *Config
		want string
	}{
		{"flag wins", "/from/flag", "/from/env", cfg, "/from/flag"},
		{"env over config", "", "/from/env", cfg, "/from/env"},
		{"config", "", "", cfg, "/from/config"},
		{"default", "", "", &Config{}, defaultSnapshotDir},
		{"nil config", "", "", nil, defaultSnapshotDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envSnapshotDir, tt.env)
			if got := resolveSnapshotDir(tt.flag, tt.cfg); got != tt.want {
				t.Errorf("resolveSnapshotDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProjectArg(t *testing.T) {
	c := New(io.Discard, LogInfo)

	if _, err := c.projectArg(nil); err == nil {
		t.Error("projectArg() without args or default should fail")
	}

	c.Config.DefaultProject = "acme-prod"
	if got, _ := c.projectArg(nil); got != "acme-prod" {
		t.Errorf("projectArg(nil) = %q, want default project", got)
	}
	if got, _ := c.projectArg([]string{"other"}); got != "other" {
		t.Errorf("projectArg([other]) = %q, want other", got)
	}
}
