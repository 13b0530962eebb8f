package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render"
)

// layoutCommand creates the layout command for printing computed rectangles.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		lf       layoutFlags
		output   string
		maxDepth int
		compact  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Compute the treemap layout and print it as JSON",
		Long: `Compute the treemap layout of a tree and print every laid-out node
as a flat JSON list with absolute rectangles, colors and weights.

The output is the same document as 'render -f json'. Without -o it is
written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(cmd, c.Logger)
			if err != nil {
				return err
			}
			var jsonOpts []render.JSONOption
			if maxDepth > 0 {
				jsonOpts = append(jsonOpts, render.WithJSONMaxDepth(maxDepth))
			}
			if compact {
				jsonOpts = append(jsonOpts, render.WithJSONCompact())
			}
			return c.runLayout(cmd.Context(), newPrinter(cmd.OutOrStdout()), args[0], output, opts, jsonOpts)
		},
	}

	lf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "levels to export below the shown root (0 = all)")
	cmd.Flags().BoolVar(&compact, "compact", false, "write compact JSON")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, out printer, input, output string, opts pipeline.Options, jsonOpts []render.JSONOption) error {
	runner := c.newRunner()

	root, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}
	nav, err := runner.Layout(ctx, root, opts)
	if err != nil {
		return err
	}
	data, err := render.RenderJSON(nav.Current(), jsonOpts...)
	if err != nil {
		return err
	}

	if output == "" {
		out.line(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	out.success("Layout complete")
	out.file(output)
	out.keyValue("Frame", nav.Viewport().String())
	out.stats(root.Count(), nav.Depth(), nil)
	return nil
}
