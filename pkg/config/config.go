// Package config loads user defaults for the treemap CLI and server.
//
// Settings come from three places, later ones winning:
//
//  1. $XDG_CONFIG_HOME/treemap/config.toml (or ~/.config/treemap/config.toml)
//  2. a .env file in the working directory
//  3. TREEMAP_WIDTH, TREEMAP_HEIGHT and TREEMAP_ADDR in the environment
//
// Command-line flags override all of them; see [Config.Apply].
//
// A typical config file:
//
//	width = 1280
//	height = 720
//	x_padding = 10
//	y_padding = 18
//	formats = ["svg", "json"]
//	collapse = true
//
//	[server]
//	addr = ":9090"
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

const (
	appName  = "treemap"
	fileName = "config.toml"

	// DefaultAddr is the listen address of the navigation server.
	DefaultAddr = ":8080"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvWidth  = "TREEMAP_WIDTH"
	EnvHeight = "TREEMAP_HEIGHT"
	EnvAddr   = "TREEMAP_ADDR"
)

// Config holds user defaults. Zero values mean "not set".
type Config struct {
	Width                  float64  `toml:"width"`
	Height                 float64  `toml:"height"`
	XPadding               *float64 `toml:"x_padding"`
	YPadding               *float64 `toml:"y_padding"`
	Formats                []string `toml:"formats"`
	Collapse               *bool    `toml:"collapse"`
	AllowNonPositiveWeight bool     `toml:"allow_non_positive_weight"`
	Server                 Server   `toml:"server"`
}

// Server holds the [server] table.
type Server struct {
	Addr string `toml:"addr"`
}

// Dir returns the config directory using the XDG standard (~/.config/treemap/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the directory for rendered artifacts:
// $XDG_CACHE_HOME/treemap when set, otherwise ~/.cache/treemap.
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config file, then .env, then the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if path, err := Path(); err == nil {
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path. A missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TREEMAP_* variables. Unset or empty
// variables are ignored.
func (c *Config) ApplyEnv() error {
	if err := envFloat(EnvWidth, &c.Width); err != nil {
		return err
	}
	if err := envFloat(EnvHeight, &c.Height); err != nil {
		return err
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", key)
	}
	*dst = f
	return nil
}

// Apply fills options the caller left unset. Values already present in opts,
// normally from command-line flags, are kept.
func (c *Config) Apply(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = c.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Height
	}
	if opts.XPadding == nil && c.XPadding != nil {
		opts.XPadding = pipeline.Float(*c.XPadding)
	}
	if opts.YPadding == nil && c.YPadding != nil {
		opts.YPadding = pipeline.Float(*c.YPadding)
	}
	if len(opts.Formats) == 0 && len(c.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Formats...)
	}
	if c.Collapse != nil && !*c.Collapse {
		opts.NoCollapse = true
	}
	if c.AllowNonPositiveWeight {
		opts.AllowNonPositive = true
	}
}

// Addr returns the server listen address, falling back to [DefaultAddr].
func (c *Config) Addr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return DefaultAddr
}
