package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/core/layout"
	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/core/zoom"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/histogram"
	tmio "github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
)

// Runner executes pipeline stages and reports them to the registered
// [observability.PipelineHooks].
//
// Trees are mutated by layout, so concurrent calls must not share a tree.
type Runner struct {
	Logger *log.Logger

	// Cache, when set, serves artifacts rendered by earlier Execute calls
	// on byte-identical input with the same options.
	Cache cache.Cache
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load -> layout -> render pipeline on the file at path.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	root, err := r.Load(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Root = root
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = root.Count()

	// Stage 2: Layout
	layoutStart := time.Now()
	nav, err := r.Layout(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Navigator = nav
	result.Stats.LayoutTime = time.Since(layoutStart)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.renderCached(ctx, path, nav.Current(), opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	return result, nil
}

// Load reads the tree stored at path.
func (r *Runner) Load(ctx context.Context, path string, opts Options) (*tree.Node, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	format := opts.InputFormat
	if format == "" {
		f, err := tmio.DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path, format)
	start := time.Now()

	root, err := tmio.ImportFile(path, format, histogramOptions(opts)...)
	hooks.OnLoadComplete(ctx, path, format, count(root), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("loaded tree",
		"source", filepath.Base(path),
		"format", format,
		"nodes", root.Count(),
		"duration", time.Since(start))
	return root, nil
}

// LoadReader reads a tree from rd. The input format must be set in opts;
// name only labels logs and hooks.
func (r *Runner) LoadReader(ctx context.Context, rd io.Reader, name string, opts Options) (*tree.Node, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.InputFormat == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "input format is required for %s", name)
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name, opts.InputFormat)
	start := time.Now()

	root, err := tmio.Read(rd, opts.InputFormat, histogramOptions(opts)...)
	hooks.OnLoadComplete(ctx, name, opts.InputFormat, count(root), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("loaded tree", "source", name, "nodes", root.Count())
	return root, nil
}

// Layout lays root out in the frame described by opts and returns a
// navigator over it. When opts.Focus names a node, the navigator is zoomed
// into the first match in depth-first order.
//
// AllowNonPositive sets the process-wide weight policy before layout.
func (r *Runner) Layout(ctx context.Context, root *tree.Node, opts Options) (*zoom.Navigator, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout: nil root")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree.SetAllowNonPositiveWeight(opts.AllowNonPositive)

	nodes := root.Count()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, nodes)
	start := time.Now()

	nav, err := r.layout(root, opts)
	hooks.OnLayoutComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("computed layout",
		"nodes", nodes,
		"focus", nav.Current().Label(),
		"duration", time.Since(start))
	return nav, nil
}

func (r *Runner) layout(root *tree.Node, opts Options) (*zoom.Navigator, error) {
	p := layout.NewProcessor(layout.WithPadding(*opts.XPadding, *opts.YPadding))
	nav, err := zoom.New(root, opts.Frame(), zoom.WithProcessor(p))
	if err != nil {
		return nil, err
	}
	if opts.Focus == "" {
		return nav, nil
	}
	target := root.FindByLabel(opts.Focus)
	if target == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "focus: no node labeled %q", opts.Focus)
	}
	if err := nav.ZoomIn(target); err != nil {
		return nil, err
	}
	return nav, nil
}

// Render generates artifacts for root in the requested formats. root must
// have been laid out, usually as the current root of a navigator.
func (r *Runner) Render(ctx context.Context, root *tree.Node, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, root, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", time.Since(start))
	return artifacts, nil
}

// renderCached renders only the formats the cache cannot serve and stores
// the fresh ones. Cache failures are logged and never fail the render.
func (r *Runner) renderCached(ctx context.Context, path string, root *tree.Node, opts Options) (map[string][]byte, error) {
	if r.Cache == nil {
		return r.Render(ctx, root, opts)
	}
	input, err := os.ReadFile(path)
	if err != nil {
		return r.Render(ctx, root, opts)
	}
	digest := cache.Hash(input)

	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := opts.artifactKey(digest, format)
		keys[format] = key
		if key != "" {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			if hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	r.Logger.Debug("artifact cache", "hits", len(artifacts), "misses", len(missing))
	if len(missing) == 0 {
		return artifacts, nil
	}

	fresh := opts
	fresh.Formats = missing
	rendered, err := r.Render(ctx, root, fresh)
	if err != nil {
		return nil, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if keys[format] == "" {
			continue
		}
		if err := r.Cache.Set(ctx, keys[format], data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
		}
	}
	return artifacts, nil
}

func renderAll(ctx context.Context, root *tree.Node, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = render.RenderSVG(root, svgOptions(opts)...)
		return svg, err
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(data, opts.Scale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatJSON:
			data, err = render.RenderJSON(root, render.WithJSONMaxDepth(opts.MaxDepth))
		case FormatDOT:
			data, err = render.RenderDOT(ctx, render.ToDOT(root, opts.MaxDepth))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func svgOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.MaxDepth > 0 {
		svgOpts = append(svgOpts, render.WithMaxDepth(opts.MaxDepth))
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, render.WithoutLabels())
	}
	return svgOpts
}

func histogramOptions(opts Options) []histogram.Option {
	return []histogram.Option{
		histogram.WithRootLabel(opts.RootLabel),
		histogram.WithCollapse(!opts.NoCollapse),
	}
}

func count(root *tree.Node) int {
	if root == nil {
		return 0
	}
	return root.Count()
}
