// Package pipeline provides the load, layout and render pipeline for treemaps.
//
// The CLI and the navigation server share this package so both entry points
// apply the same defaults and validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a nested tree (JSON, YAML) or an object histogram
//  2. Layout: squarify the tree into the frame and optionally focus a node
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Width:   1024,
//	    Height:  768,
//	    Formats: []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, "heap.histo", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/core/layout"
	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/core/zoom"
	"github.com/matzehuels/treemap/pkg/errors"
	tmio "github.com/matzehuels/treemap/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultXPadding is the horizontal inset of a node's children.
	DefaultXPadding = layout.XPadding

	// DefaultYPadding is the vertical inset of a node's children.
	DefaultYPadding = layout.YPadding

	// DefaultPNGScale is the rasterization factor for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidInputFormats is the set of supported input formats.
var ValidInputFormats = map[string]bool{
	tmio.FormatJSON:      true,
	tmio.FormatYAML:      true,
	tmio.FormatHistogram: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the treemap pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	InputFormat string `json:"input_format,omitempty"`
	RootLabel   string `json:"root_label,omitempty"`  // Histogram root label
	NoCollapse  bool   `json:"no_collapse,omitempty"` // Keep single-child package chains

	// Layout options
	Width            float64  `json:"width,omitempty"`
	Height           float64  `json:"height,omitempty"`
	XPadding         *float64 `json:"x_padding,omitempty"`
	YPadding         *float64 `json:"y_padding,omitempty"`
	AllowNonPositive bool     `json:"allow_non_positive_weight,omitempty"`
	Focus            string   `json:"focus,omitempty"` // Label of the node to zoom into

	// Render options
	Formats  []string `json:"formats,omitempty"`
	MaxDepth int      `json:"max_depth,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Root is the loaded tree.
	Root *tree.Node

	// Navigator holds the laid-out tree and the focus applied by Options.Focus.
	Navigator *zoom.Navigator

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// Float returns a pointer to v, for the optional padding fields.
func Float(v float64) *float64 { return &v }

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.XPadding == nil {
		o.XPadding = Float(DefaultXPadding)
	}
	if o.YPadding == nil {
		o.YPadding = Float(DefaultYPadding)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLoad checks load options. An empty input format is allowed and
// inferred from the file name later.
func (o *Options) ValidateForLoad() error {
	if o.InputFormat != "" && !ValidInputFormats[o.InputFormat] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be one of: json, yaml, histogram)", o.InputFormat)
	}
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if !finitePositive(o.Width) || !finitePositive(o.Height) {
		return errors.New(errors.ErrCodeInvalidInput, "frame must be positive and finite, got %gx%g", o.Width, o.Height)
	}
	if !finiteNonNegative(*o.XPadding) || !finiteNonNegative(*o.YPadding) {
		return errors.New(errors.ErrCodeInvalidInput, "padding must be non-negative, got %g/%g", *o.XPadding, *o.YPadding)
	}
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 || math.IsNaN(o.Scale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// Validate checks every stage and applies all defaults.
func (o *Options) Validate() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// artifactKey identifies the artifact rendered in format from an input with
// the given digest. Every option except the format list contributes, as does
// the binary version.
func (o *Options) artifactKey(digest, format string) string {
	keyed := *o
	keyed.Formats = nil
	return cache.Key("artifact", buildinfo.Get().Version, digest, format, keyed)
}

// Frame returns the layout viewport.
func (o *Options) Frame() tree.Rect { return tree.NewRect(0, 0, o.Width, o.Height) }

func finitePositive(v float64) bool    { return v > 0 && !math.IsInf(v, 0) }
func finiteNonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }
