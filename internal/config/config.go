package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/Johannes-Berggren/GitHistory/internal/layout"
)

const (
	BackendCLI   = "cli"
	BackendGoGit = "go-git"
)

// Config is the schema of ~/.githistory/config.toml.
type Config struct {
	Count     int          `toml:"count"`
	Backend   string       `toml:"backend"`
	GitBinary string       `toml:"git_binary"`
	LogFile   string       `toml:"log_file"`
	Watch     bool         `toml:"watch"`
	Theme     ThemeConfig  `toml:"theme"`
	Layout    LayoutConfig `toml:"layout"`
	Source    string       `toml:"-"`
}

type ThemeConfig struct {
	RowTint string `toml:"row_tint"`
	Accent  string `toml:"accent"`
}

// LayoutConfig sizes list rows in terminal lines.
type LayoutConfig struct {
	LineHeight      int `toml:"line_height"`
	VerticalSpacing int `toml:"vertical_spacing"`
	Padding         int `toml:"padding"`
}

func Default() Config {
	return Config{
		Count:     5,
		Backend:   BackendCLI,
		GitBinary: "git",
		Theme: ThemeConfig{
			RowTint: "#3a3a46",
			Accent:  "170",
		},
		Layout: LayoutConfig{
			LineHeight: 1,
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".githistory", "config.toml")
}

// Load reads path (DefaultPath when empty) over the defaults. A missing
// file is not an error. GITHISTORY_GIT and GITHISTORY_BACKEND override
// the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		applyEnv(&cfg)
		return cfg, nil
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("GITHISTORY_GIT")); env != "" {
		cfg.GitBinary = env
	}
	if env := strings.TrimSpace(os.Getenv("GITHISTORY_BACKEND")); env != "" {
		cfg.Backend = env
	}
}

// Validate reports settings the viewer cannot run with.
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	switch c.Backend {
	case BackendCLI, BackendGoGit:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendCLI, BackendGoGit)
	}
	if c.Layout.LineHeight < 1 {
		return fmt.Errorf("layout.line_height must be at least 1, got %d", c.Layout.LineHeight)
	}
	if c.Layout.VerticalSpacing < 0 || c.Layout.Padding < 0 {
		return errors.New("layout spacing and padding must not be negative")
	}
	if _, err := layout.ParseHex(c.Theme.RowTint); err != nil {
		return fmt.Errorf("theme.row_tint: %w", err)
	}
	return nil
}

// Metrics converts the layout section to list metrics.
func (c Config) Metrics() layout.Metrics {
	return layout.Metrics{
		LineHeight:      float64(c.Layout.LineHeight),
		VerticalSpacing: float64(c.Layout.VerticalSpacing),
		Padding:         float64(c.Layout.Padding),
	}
}

// Tint returns the row tint, falling back to the default on a bad value.
func (c Config) Tint() layout.Color {
	tint, err := layout.ParseHex(c.Theme.RowTint)
	if err != nil {
		tint, _ = layout.ParseHex(Default().Theme.RowTint)
	}
	return tint
}
