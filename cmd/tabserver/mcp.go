package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/averycrespi/tabserver/internal/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp [files...]",
		Short: "Serve open tabs as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				a.shutdown(ctx)
			}()

			if err := a.openTabs(append(append([]string{}, opts.cfg.Tabs...), args...)); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Blocks until stdin closes or ctx is cancelled
			return server.NewTabServer(a.workspace, a.encoding).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
