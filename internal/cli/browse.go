package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
)

// browseCommand creates the browse command for zooming through a treemap
// in the terminal.
func (c *CLI) browseCommand() *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [input]",
		Short: "Browse a treemap interactively in the terminal",
		Long: `Open a full-screen treemap of the input and navigate it with the keyboard.

Arrow keys move the selection between the children of the shown node,
Enter zooms into the selected child, Backspace zooms out one level and r
returns to the root. The layout follows the terminal size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(cmd, c.Logger)
			if err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), newPrinter(cmd.OutOrStdout()), args[0], opts)
		},
	}

	lf.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, out printer, input string, opts pipeline.Options) error {
	runner := c.newRunner()

	root, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}
	nav, err := runner.Layout(ctx, root, opts)
	if err != nil {
		return err
	}

	m := NewBrowseModel(nav, filepath.Base(input))
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if fm, ok := final.(BrowseModel); ok && fm.err != nil {
		out.warning("Last action failed: %v", fm.err)
	}
	return nil
}
