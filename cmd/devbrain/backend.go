package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/mockbackend"
)

func newBackendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Reference backend commands",
	}
	cmd.AddCommand(newBackendServeCmd())
	return cmd
}

func newBackendServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory reference backend",
		Long:  "Serves the DevBrain REST API from memory for local development. Data is lost on exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackendServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	return cmd
}

func runBackendServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, logger, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.MockBackend.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return mockbackend.Start(ctx, mockbackend.StartOpts{
		Port:   port,
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	})
}
