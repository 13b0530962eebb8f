package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/server"
)

// serveCommand creates the serve command running the navigation server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve treemap navigation sessions over HTTP",
		Long: `Run an HTTP server holding treemap navigation sessions.

POST a nested tree document to /api/sessions to open a session, then zoom
and select nodes through /api/sessions/{id}/... Every navigation response
lists the events the call raised.

The listen address comes from --addr, TREEMAP_ADDR, or server.addr in the
config file, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Addr()
			}
			var defaults pipeline.Options
			cfg.Apply(&defaults)
			return c.runServe(cmd.Context(), newPrinter(cmd.OutOrStdout()), addr, defaults)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, out printer, addr string, defaults pipeline.Options) error {
	logger := loggerFromContext(ctx)
	observability.SetNavigationHooks(observability.NewNavigationLogger(logger))
	defer observability.Reset()

	s := server.New(
		server.WithLogger(logger),
		server.WithDefaults(defaults),
	)

	out.info("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	out.detail("POST a tree to /api/sessions to start; Ctrl+C to stop")

	if err := s.ListenAndServe(ctx, addr); err != nil {
		out.errorf("Server stopped: %v", err)
		return err
	}
	out.success("Server stopped")
	return nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
