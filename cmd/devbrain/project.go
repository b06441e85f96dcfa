package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/session"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project commands",
	}

	cmd.AddCommand(newProjectOpenCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectClearCmd())
	cmd.AddCommand(newProjectListCmd())
	return cmd
}

func newProjectOpenCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Resume the stored project or create a new one",
		Long:  "Loads the project remembered in the session store. When none is stored, or the backend no longer has it, a new project is created from the config's project section.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				fmt.Fprint(cmd.OutOrStdout(), formatHeader(a.store.Snapshot()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}

func newProjectShowCmd() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the project tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				snap := a.store.Snapshot()
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(snap)
				}
				fmt.Fprint(out, formatHeader(snap))
				fmt.Fprint(out, formatTree(snap))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full snapshot as JSON")
	return cmd
}

func newProjectClearCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored project id",
		Long:  "Clears the remembered project so the next open creates a new one. Nothing is deleted on the backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			sess, err := session.Open(cfg.Session)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.ClearProjectID(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stored project cleared.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			client, err := newRemote(cfg, logger)
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tNODES\tCREATED")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.Name, p.NodeCount, p.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}
