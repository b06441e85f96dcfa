package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the project to other tools",
	}
	cmd.AddCommand(newExportGitHubCmd())
	return cmd
}

func newExportGitHubCmd() *cobra.Command {
	var (
		configPath string
		owner      string
		repo       string
		token      string
		baseURL    string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "github",
		Short: "Create a GitHub issue for every node that is not completed",
		Long:  "Creates one issue per open node, labelled \"devbrain\" and \"status:<status>\". Flags override the github section of the config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				if owner == "" {
					owner = a.cfg.GitHub.Owner
				}
				if repo == "" {
					repo = a.cfg.GitHub.Repo
				}
				if token == "" {
					token = a.cfg.GitHub.Token
				}
				snap := a.store.Snapshot()
				out := cmd.OutOrStdout()

				if dryRun {
					pending := export.Pending(snap)
					fmt.Fprintf(out, "Would create %d issue(s) in %s/%s:\n", len(pending), owner, repo)
					for _, n := range pending {
						fmt.Fprintf(out, "  %s [%s]\n", n.Label, n.Status)
					}
					return nil
				}

				client, err := export.NewClient(ctx, token, baseURL)
				if err != nil {
					return err
				}
				results, err := export.Issues(ctx, export.Opts{
					Issues: client.Issues,
					Owner:  owner,
					Repo:   repo,
					Logger: a.logger,
				}, snap)

				if len(results) > 0 {
					w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "ISSUE\tNODE\tURL")
					for _, r := range results {
						fmt.Fprintf(w, "#%d\t%s\t%s\n", r.Number, r.Label, r.URL)
					}
					w.Flush()
				}
				if err != nil {
					return fmt.Errorf("%w (%d issue(s) created before the failure)", err, len(results))
				}
				fmt.Fprintf(out, "Created %d issue(s).\n", len(results))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().StringVar(&owner, "owner", "", "repository owner")
	cmd.Flags().StringVar(&repo, "repo", "", "repository name")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "GitHub Enterprise API URL")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the issues without creating them")
	return cmd
}
