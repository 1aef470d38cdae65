package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/mcp"
)

func newServeCmd() *cobra.Command {
	var (
		transport string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP tool server",
		Long: `Start a Model Context Protocol server exposing site search, publication
filtering, metrics, BibTeX export, the co-authorship graph and index
status as tools.

stdout carries JSON-RPC exclusively; logs go to stderr, or to
~/.labsite/logs/ with --debug.`,
		Example: `  labsite serve
  labsite serve --watch --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cfg, s, err := openSite(ctx)
			if err != nil {
				return err
			}
			s.Start(ctx)
			if watch || cfg.Watch.Enabled {
				startWatch(ctx, cfg, s)
			}

			srv, err := mcp.NewServer(s, mcp.Options{Team: cfg.Team})
			if err != nil {
				return err
			}
			return srv.Serve(ctx, transport)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport: stdio")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload publications when the data file changes")
	return cmd
}
