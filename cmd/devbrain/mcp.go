package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/mcptools"
)

func newMCPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the project map as MCP tools over stdio",
		Long:  "Runs a Model Context Protocol server on stdin/stdout so coding agents can read the project, add nodes, change status and chat about nodes. Notices and logs go to stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				a.logger.Info("mcp server starting", "version", Version)
				return mcptools.New(a.store, Version).Run(ctx, &mcp.StdioTransport{})
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}
