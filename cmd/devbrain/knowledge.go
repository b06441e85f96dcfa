package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/store"
)

func newKnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Project knowledge base commands",
	}

	cmd.AddCommand(newKnowledgeUploadCmd())
	cmd.AddCommand(newKnowledgeSearchCmd())
	return cmd
}

func newKnowledgeUploadCmd() *cobra.Command {
	var (
		configPath  string
		description string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document to the project's knowledge base",
		Long:  "Uploads a file (txt, md, pdf, docx) to the backend. Requires a reachable backend and an open project.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				k, err := a.store.UploadKnowledge(ctx, models.KnowledgeFile{
					Name:    filepath.Base(args[0]),
					Content: f,
				}, description)
				if err != nil {
					return knowledgeErr(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s)\n", k.Title, k.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().StringVar(&description, "description", "", "what the document is about")
	return cmd
}

func newKnowledgeSearchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the project's knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				docs, err := a.store.SearchKnowledge(ctx, args[0])
				if err != nil {
					return knowledgeErr(err)
				}
				out := cmd.OutOrStdout()
				if len(docs) == 0 {
					fmt.Fprintln(out, "No matching documents.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tTYPE\tPREVIEW")
				for _, d := range docs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Title, d.FileType, truncate(d.ContentPreview, 60))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}

func knowledgeErr(err error) error {
	if errors.Is(err, store.ErrOffline) {
		return errors.New("the knowledge base needs a reachable backend with an open project")
	}
	return err
}

// truncate shortens s to n runes on a single line.
func truncate(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' {
			r[i] = ' '
		}
	}
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
