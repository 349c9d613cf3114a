package cli

import (
	"log/slog"

	planserver "github.com/HendryAvila/phaseplan/internal/server"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start phaseplan as an MCP server speaking JSON-RPC over stdin/stdout.

Logs are written to stderr so they never interfere with the transport.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.openStore()
			defer cleanup()
			if err != nil {
				return err
			}

			s := planserver.New(store)
			a.logger.Info("serving MCP over stdio",
				"version", planserver.Version,
				"state_dir", a.cfg.State.Dir,
				"backend", a.cfg.State.Backend,
			)
			// The stdio server stops on SIGINT/SIGTERM by itself.
			return server.ServeStdio(s, server.WithErrorLogger(slog.NewLogLogger(a.logger.Handler(), slog.LevelError)))
		},
	}
}
