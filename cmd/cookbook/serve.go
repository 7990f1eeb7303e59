package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cookbook/internal/config"
	"cookbook/internal/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recipe web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}

			logger := slog.Default().With("component", "server")

			raw := cfg.UI.Addr
			if cmd.Flags().Changed("addr") {
				raw = addr
			}
			listenAddr, err := server.ListenAddr(raw)
			if err != nil {
				return err
			}

			srv, err := server.New(listenAddr, newAPIClient(cfg), cfg.Resolver(), server.OptionsFromConfig(cfg), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultUIAddr, "listen address (loopback unless COOKBOOK_ALLOW_REMOTE=true)")
	return cmd
}
