// Package config loads the graphpad configuration file.
//
// The file lives at $XDG_CONFIG_HOME/graphpad/config.toml (or
// ~/.config/graphpad/config.toml). A missing file is not an error: every
// setting has a default, and a partial file overrides only what it names.
//
//	[canvas]
//	hit_slack = 2.0     # extra pick radius around nodes, in canvas units
//	cell_width = 8.0    # canvas units per terminal column
//	cell_height = 16.0  # canvas units per terminal row
//
//	[pen]
//	default = "black"   # black, red, blue or #rrggbb
//
//	[recovery]
//	backend = "file"    # file, redis, mongo or none
//	url = ""            # redis:// or mongodb:// connection string
//	ttl = "168h"
//
//	[server]
//	addr = "127.0.0.1:8080"
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/store"
)

const (
	// Dir is the directory name under XDG_CONFIG_HOME.
	Dir = "graphpad"
	// File is the config file name.
	File = "config.toml"
)

// Config is the full configuration.
type Config struct {
	Canvas   Canvas   `toml:"canvas"`
	Pen      Pen      `toml:"pen"`
	Recovery Recovery `toml:"recovery"`
	Server   Server   `toml:"server"`
}

// Canvas maps the terminal grid onto canvas coordinates.
type Canvas struct {
	HitSlack   float64 `toml:"hit_slack"`
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

// Pen holds the initial pen color of new documents.
type Pen struct {
	Default string `toml:"default"`
}

// Recovery selects the autosave store.
type Recovery struct {
	Backend    string   `toml:"backend"`
	URL        string   `toml:"url"`
	Dir        string   `toml:"dir,omitempty"`
	Database   string   `toml:"database,omitempty"`
	Collection string   `toml:"collection,omitempty"`
	TTL        Duration `toml:"ttl"`
}

// Server configures the HTTP host.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{HitSlack: 2, CellWidth: 8, CellHeight: 16},
		Pen:    Pen{Default: "black"},
		Recovery: Recovery{
			Backend: store.BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

// Path returns the default config file path.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/graphpad/config.toml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, Dir, File)
}

// Load reads the config file at path over the defaults. An empty path
// means [Path]; only then is a missing file tolerated.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if c.Canvas.HitSlack < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "canvas.hit_slack must not be negative")
	}
	if c.Canvas.CellWidth <= 0 || c.Canvas.CellHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "canvas.cell_width and canvas.cell_height must be positive")
	}
	if _, err := errs.ValidateColorName(c.Pen.Default); err != nil {
		return err
	}
	switch c.Recovery.Backend {
	case store.BackendFile, store.BackendRedis, store.BackendMongo, store.BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "recovery.backend must be file, redis, mongo or none, got %q", c.Recovery.Backend)
	}
	if c.Recovery.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "recovery.ttl must not be negative")
	}
	return nil
}

// PenColor returns the parsed default pen color.
func (c Config) PenColor() graph.Color {
	col, err := graph.ParseColor(c.Pen.Default)
	if err != nil {
		return graph.Black
	}
	return col
}

// StoreConfig returns the recovery store settings.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:    c.Recovery.Backend,
		URL:        c.Recovery.URL,
		Dir:        c.Recovery.Dir,
		Database:   c.Recovery.Database,
		Collection: c.Recovery.Collection,
	}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
