package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

// renderCommand creates the render command for writing treemap artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf         layoutFlags
		output     string
		formatsStr string
		maxDepth   int
		noLabels   bool
		scale      float64
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render a tree or histogram as a treemap",
		Long: `Render a weighted tree as a squarified treemap.

The input is a nested tree document (.json, .yaml) or an object histogram
(.histo, .csv, .txt) as printed by "jmap -histo". Several formats can be
requested at once; files are named after the input unless -o is given.

PNG and PDF output require rsvg-convert from librsvg. Rendered files are
cached per input and options; --no-cache renders from scratch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(cmd, c.Logger)
			if err != nil {
				return err
			}
			if formatsStr != "" {
				if opts.Formats, err = pipeline.ParseFormats(formatsStr); err != nil {
					return err
				}
			}
			opts.MaxDepth = maxDepth
			opts.NoLabels = noLabels
			opts.Scale = scale
			return c.runRender(cmd.Context(), newPrinter(cmd.OutOrStdout()), args[0], output, opts, !noCache)
		},
	}

	lf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf, dot (comma-separated)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "levels to draw below the shown root (0 = all)")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit node labels (svg)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultPNGScale, "PNG scale factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write the artifact cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, out printer, input, output string, opts pipeline.Options, useCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := c.newRunner()
	if useCache {
		runner.Cache = openCache(logger)
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+input+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, input, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.step("pipeline finished",
		"load", result.Stats.LoadTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	formats := slices.Sorted(maps.Keys(result.Artifacts))
	written := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(output, input, format, len(formats) == 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done("Rendered %d file(s)", len(written))

	out.success("Render complete")
	for _, path := range written {
		out.file(path)
	}
	out.stats(result.Stats.NodeCount, result.Navigator.Depth(), formats)
	out.newline()
	out.nextStep("Browse", appName+" browse "+input)

	return nil
}

// openCache opens the artifact cache, falling back to no caching when the
// cache directory is unusable.
func openCache(logger *log.Logger) cache.Cache {
	dir, err := config.CacheDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			logger.Debug("artifact cache", "dir", dir)
			return fc
		}
	}
	logger.Warn("artifact cache disabled", "error", err)
	return cache.NullCache{}
}
