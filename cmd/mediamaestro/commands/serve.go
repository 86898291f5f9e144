package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mediamaestro/internal/server"
	"mediamaestro/internal/shared"
)

// NewServeCommand creates the HTTP server command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server for the web frontend.",
		Args:  cobra.NoArgs,
		RunE:  runServeCommand,
	}
	cmd.Flags().String("listen", "", "Listen address (overrides config)")
	return cmd
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, container, err := initConfigAndServices(cmd, true)
	if err != nil {
		return err
	}
	defer container.Close()

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.ListenAddr = listen
	}
	if err := cfg.EnsureMediaTree(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shared.ColorInfo.Printf("🎵 MediaMaestro API listening on %s\n", cfg.ListenAddr)
	return server.New(container).Run(ctx)
}
