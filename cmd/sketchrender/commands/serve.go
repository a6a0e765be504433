package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-sketch/internal/mcpserver"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the render tools over MCP stdio",
	Long: `The serve command runs an MCP server on stdin/stdout exposing the
excalidraw_read_me and create_excalidraw_diagram tools. One browser is shared
across calls and closed when the server exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := newRenderer(cfg, logger)
		defer r.Shutdown(context.Background())

		gen := toolkit.NewDiagramGenerator(r)
		gen.Logger = logger
		srv := mcpserver.New(gen, logger)
		if err := srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	AddCommand(serveCmd)
}
