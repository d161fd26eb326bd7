package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arcforge/internal/metrics"
	"github.com/matzehuels/arcforge/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the item catalog and crafting graphs over HTTP",
		Long: `Start the HTTP API.

Routes:
  GET /api/items            list items (?kind=, ?q=)
  GET /api/items/{id}       one item and the recipes that use it
  GET /api/tree/{id}        scene JSON (?selected=)
  GET /api/tree/{id}.svg    rendered graph (.dot, .png, .json also work)
  GET /metrics              Prometheus metrics
  GET /healthz              liveness`,
		Example: `  arcforge serve
  arcforge serve --addr :9000 -d items.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noMetrics bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	runner, cat, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := server.Options{Addr: cfg.Server.Addr, ShutdownTimeout: cfg.Server.ShutdownTimeout}
	if cfg.Server.Metrics && !noMetrics {
		m := metrics.New()
		m.Register()
		opts.Metrics = m.Handler()
	}

	printSuccess("Serving %s on %s", itemCount(cat.Len()), StyleHighlight.Render(cfg.Server.Addr))
	if opts.Metrics != nil {
		printDetail("metrics at /metrics")
	}
	return server.New(cat, runner, c.Logger, opts).Run(ctx)
}
