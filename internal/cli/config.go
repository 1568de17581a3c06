package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/network"
)

// configFileName is looked up inside configDir.
const configFileName = "config.toml"

// defaultServerAddr matches the port the hosted viewer historically used.
const defaultServerAddr = ":8501"

// Config is the optional TOML configuration file.
//
//	snapshot_dir = "/data/snapshots"
//	default_project = "acme-prod"
//	level_policy = "isolate"
//
//	[render]
//	height = "900px"
//
//	[physics]
//	spring_length = 250
//
//	[server]
//	addr = "127.0.0.1:8501"
//	watch = true
type Config struct {
	SnapshotDir    string          `toml:"snapshot_dir"`
	DefaultProject string          `toml:"default_project"`
	LevelPolicy    string          `toml:"level_policy"`
	Render         RenderConfig    `toml:"render"`
	Physics        network.Physics `toml:"physics"`
	Server         ServerConfig    `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// RenderConfig sets the page of rendered HTML documents.
type RenderConfig struct {
	Height     string `toml:"height"`
	Width      string `toml:"width"`
	Background string `toml:"background"`
	FontColor  string `toml:"font_color"`
	CDN        string `toml:"cdn"`
}

// ServerConfig sets the defaults of the serve command.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	Watch    bool   `toml:"watch"`
	MemoSize int    `toml:"memo_size"`
}

// defaultConfig returns the configuration used when no file exists. Physics
// starts from the renderer defaults so a file only overrides what it names.
func defaultConfig() *Config {
	return &Config{
		Physics: network.DefaultPhysics(),
		Server:  ServerConfig{Addr: defaultServerAddr},
	}
}

// loadConfig reads the config file. An explicit path must exist; the default
// path is optional. Keys the file sets but gcpmap does not know are logged.
func loadConfig(path string, logger *log.Logger) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return defaultConfig(), nil
		}
		path = filepath.Join(dir, configFileName)
	}

	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg.Path = path

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", "file", path, "keys", strings.Join(keys, ", "))
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
	logger.Debug("loaded config", "file", path)
	return cfg, nil
}

// loadDotenv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotenv(logger *log.Logger) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not read .env", "err", err)
	}
}

// resolveSnapshotDir applies the precedence flag > env > config > "./".
func resolveSnapshotDir(flag string, cfg *Config) string {
	if flag != "" {
		return flag
	}
	if env := strings.TrimSpace(os.Getenv(envSnapshotDir)); env != "" {
		return env
	}
	if cfg != nil && cfg.SnapshotDir != "" {
		return cfg.SnapshotDir
	}
	return defaultSnapshotDir
}

// networkOptions returns the HTML renderer options for this config.
func (cfg *Config) networkOptions() network.Options {
	opts := network.DefaultOptions()
	if v := cfg.Render.Height; v != "" {
		opts.Height = v
	}
	if v := cfg.Render.Width; v != "" {
		opts.Width = v
	}
	if v := cfg.Render.Background; v != "" {
		opts.Background = v
	}
	if v := cfg.Render.FontColor; v != "" {
		opts.FontColor = v
	}
	if v := cfg.Render.CDN; v != "" {
		opts.CDN = v
	}
	opts.Physics = cfg.Physics
	return opts
}
