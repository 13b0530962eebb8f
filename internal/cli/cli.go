package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treemap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Treemap draws weighted trees as nested rectangles",
		Long:         `Treemap lays out weighted hierarchies, such as directory sizes or JVM heap histograms, as squarified treemaps and lets you zoom through them.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the flags shared by every command that lays out a tree.
type layoutFlags struct {
	inputFormat      string
	width            float64
	height           float64
	xPadding         float64
	yPadding         float64
	rootLabel        string
	noCollapse       bool
	allowNonPositive bool
	focus            string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.inputFormat, "input-format", "i", "", "input format: json, yaml, histogram (default: from extension)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "frame width (default 800)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "frame height (default 600)")
	cmd.Flags().Float64Var(&f.xPadding, "x-padding", pipeline.DefaultXPadding, "horizontal inset of children")
	cmd.Flags().Float64Var(&f.yPadding, "y-padding", pipeline.DefaultYPadding, "vertical inset of children")
	cmd.Flags().StringVar(&f.rootLabel, "root-label", "", "label of the histogram root node")
	cmd.Flags().BoolVar(&f.noCollapse, "no-collapse", false, "keep single-child package chains (histogram)")
	cmd.Flags().BoolVar(&f.allowNonPositive, "allow-non-positive", false, "lay out zero and negative weights as given")
	cmd.Flags().StringVar(&f.focus, "focus", "", "zoom into the first node with this label")
}

// options merges flags with the user config. Flags the user did not set
// leave room for config values.
func (f *layoutFlags) options(cmd *cobra.Command, logger *log.Logger) (pipeline.Options, error) {
	opts := pipeline.Options{
		InputFormat:      f.inputFormat,
		Width:            f.width,
		Height:           f.height,
		RootLabel:        f.rootLabel,
		NoCollapse:       f.noCollapse,
		AllowNonPositive: f.allowNonPositive,
		Focus:            f.focus,
		Logger:           logger,
	}
	if cmd.Flags().Changed("x-padding") {
		opts.XPadding = pipeline.Float(f.xPadding)
	}
	if cmd.Flags().Changed("y-padding") {
		opts.YPadding = pipeline.Float(f.yPadding)
	}

	cfg, err := config.Load()
	if err != nil {
		return opts, err
	}
	cfg.Apply(&opts)
	return opts, nil
}

// =============================================================================
// Paths
// =============================================================================

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns where the artifact for format is written. A single
// requested format goes to output verbatim when given.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}
