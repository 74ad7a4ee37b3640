package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/averycrespi/tabserver/internal/httpserver"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Serve open tabs over HTTP",
		Long:  "Open the configured tabs plus any files given as arguments and serve them over HTTP until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				a.shutdown(ctx)
			}()

			if err := a.openTabs(append(append([]string{}, cfg.Tabs...), args...)); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpserver.NewHTTPServer(cfg.Addr, httpserver.Handler(a.workspace, cfg, a.encoding))
			if err := srv.Start(ctx); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
			case <-srv.Done():
			}

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (overrides the config file)")
	return cmd
}
