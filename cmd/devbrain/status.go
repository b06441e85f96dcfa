package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/session"
)

func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show backend connectivity and session state",
		Long:  "Probes the backend health endpoint and prints the stored project id and the local assistant providers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}

func runStatus(cmd *cobra.Command, configPath string) error {
	cfg, logger, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}
	client, err := newRemote(cfg, logger)
	if err != nil {
		return err
	}
	chain, err := newChain(cfg, logger)
	if err != nil {
		return err
	}
	defer chain.Close()
	sess, err := session.Open(cfg.Session)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := context.Background()
	reachable := "unreachable"
	if client.Check(ctx) {
		reachable = "reachable"
	}
	projectID, err := sess.ProjectID(ctx)
	if err != nil {
		return err
	}
	if projectID == "" {
		projectID = "(none)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Backend:    %s (%s)\n", cfg.Backend.URL, reachable)
	fmt.Fprintf(out, "Health:     %s\n", client.HealthURL())
	fmt.Fprintf(out, "Project:    %s\n", projectID)
	fmt.Fprintf(out, "Session:    %s\n", cfg.Session.Driver)
	fmt.Fprintf(out, "Assistant:  %s\n", strings.Join(chain.Providers(), " -> "))
	return nil
}
