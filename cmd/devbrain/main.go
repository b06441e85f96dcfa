package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "devbrain",
		Short:        "DevBrain: plan projects as a map of nodes",
		Long:         "DevBrain keeps a hierarchical map of features and tasks in sync with the DevBrain backend and lets you chat with an assistant about each node. Without a backend it works on local demo data.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newNodeCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newKnowledgeCmd())
	cmd.AddCommand(newBackendCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newShellCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "devbrain %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
