package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

const sampleConfig = `
width = 1280.0
height = 720.0
x_padding = 0.0
formats = ["svg", "json"]
collapse = false

[server]
addr = ":9090"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	home := t.TempDir()
	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", home)
	return home
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg", appName); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", appName); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestLoad(t *testing.T) {
	writeConfig(t, sampleConfig)
	t.Setenv(EnvWidth, "")
	t.Setenv(EnvHeight, "")
	t.Setenv(EnvAddr, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("frame = %gx%g, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.XPadding == nil || *cfg.XPadding != 0 {
		t.Errorf("XPadding = %v, want explicit 0", cfg.XPadding)
	}
	if cfg.YPadding != nil {
		t.Errorf("YPadding = %v, want unset", *cfg.YPadding)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr() = %q, want :9090", cfg.Addr())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	writeConfig(t, sampleConfig)
	t.Setenv(EnvWidth, "1920")
	t.Setenv(EnvHeight, "")
	t.Setenv(EnvAddr, "127.0.0.1:7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Width != 1920 {
		t.Errorf("Width = %g, want 1920 from env", cfg.Width)
	}
	if cfg.Height != 720 {
		t.Errorf("Height = %g, want 720 from file", cfg.Height)
	}
	if cfg.Addr() != "127.0.0.1:7000" {
		t.Errorf("Addr() = %q, want env value", cfg.Addr())
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad env", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv(EnvWidth, "wide")
		if _, err := Load(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidInput)
		}
	})

	t.Run("bad toml", func(t *testing.T) {
		writeConfig(t, "width = [")
		t.Setenv(EnvWidth, "")
		if _, err := Load(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
		}
	})
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Width != 0 || cfg.Addr() != DefaultAddr {
		t.Errorf("LoadFile(missing) = %+v, want empty config", cfg)
	}
}

func TestApply(t *testing.T) {
	collapse := false
	cfg := &Config{
		Width:    1280,
		Height:   720,
		XPadding: pipeline.Float(4),
		Formats:  []string{"json"},
		Collapse: &collapse,
	}

	opts := pipeline.Options{Width: 500, Formats: []string{"svg"}}
	cfg.Apply(&opts)

	if opts.Width != 500 {
		t.Errorf("Width = %g, want flag value 500", opts.Width)
	}
	if opts.Height != 720 {
		t.Errorf("Height = %g, want config value 720", opts.Height)
	}
	if opts.XPadding == nil || *opts.XPadding != 4 {
		t.Errorf("XPadding = %v, want 4", opts.XPadding)
	}
	if opts.YPadding != nil {
		t.Errorf("YPadding = %v, want unset", *opts.YPadding)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if !opts.NoCollapse {
		t.Error("NoCollapse = false, want true from collapse = false")
	}
}
