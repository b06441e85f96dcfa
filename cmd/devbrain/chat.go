package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
)

func newChatCmd() *cobra.Command {
	var (
		configPath string
		knowledge  bool
		history    bool
	)

	cmd := &cobra.Command{
		Use:   "chat <node-id> [message...]",
		Short: "Ask the assistant about a node",
		Long:  "Sends a message about a node. The backend answers when it is reachable and the node exists there; otherwise the local assistant chain replies.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				id, err := resolveNode(a, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if history {
					for _, m := range a.store.Snapshot().Chat(id) {
						fmt.Fprint(out, formatMessage(m))
					}
				}
				message := strings.Join(args[1:], " ")
				if message == "" {
					if !history {
						return fmt.Errorf("message is required")
					}
					return nil
				}
				useKnowledge := a.store.UseKnowledge()
				if cmd.Flags().Changed("knowledge") {
					useKnowledge = knowledge
				}
				reply := a.store.AddChatMessage(ctx, id, message, useKnowledge)
				fmt.Fprint(out, formatMessage(reply))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().BoolVar(&knowledge, "knowledge", true, "ground the answer in uploaded knowledge files")
	cmd.Flags().BoolVar(&history, "history", false, "print the node's earlier messages first")
	return cmd
}
