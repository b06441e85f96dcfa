package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

func newNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Node management commands",
	}

	cmd.AddCommand(newNodeAddCmd())
	cmd.AddCommand(newNodeUpdateCmd())
	cmd.AddCommand(newNodeStatusCmd())
	cmd.AddCommand(newNodeMoveCmd())
	cmd.AddCommand(newNodeDeleteCmd())
	return cmd
}

func newNodeAddCmd() *cobra.Command {
	var (
		configPath  string
		label       string
		description string
		status      string
		owner       string
		parent      string
		x, y        float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node",
		Long:  "Adds a node to the open project. The node is created on the backend when it is reachable; otherwise it only exists locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				in := models.NodeInput{
					Label:       label,
					Description: description,
					Position:    models.Position{X: x, Y: y},
				}
				if status != "" {
					st, err := models.ParseStatus(status)
					if err != nil {
						return err
					}
					in.Status = st
				}
				if owner != "" {
					in.Owner = &owner
				}
				if parent != "" {
					pid, err := resolveNode(a, parent)
					if err != nil {
						return err
					}
					in.ParentID = &pid
				}
				n := a.store.AddNode(ctx, in)
				fmt.Fprintf(cmd.OutOrStdout(), "Added node %s (%s)\n", n.ID, n.Label)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().StringVar(&label, "label", "", "node label (required)")
	cmd.Flags().StringVar(&description, "description", "", "node description")
	cmd.Flags().StringVar(&status, "status", "", "not-started, in-progress or completed")
	cmd.Flags().StringVar(&owner, "owner", "", "owner name")
	cmd.Flags().StringVar(&parent, "parent", "", "parent node id")
	cmd.Flags().Float64Var(&x, "x", 0, "layout x position")
	cmd.Flags().Float64Var(&y, "y", 0, "layout y position")
	cmd.MarkFlagRequired("label")
	return cmd
}

func newNodeUpdateCmd() *cobra.Command {
	var (
		configPath  string
		label       string
		description string
		owner       string
		parent      string
		root        bool
	)

	cmd := &cobra.Command{
		Use:   "update <node-id>",
		Short: "Edit a node's fields",
		Long:  "Updates only the flags given. --owner \"\" clears the owner; --root detaches the node from its parent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				id, err := resolveNode(a, args[0])
				if err != nil {
					return err
				}
				var patch models.NodePatch
				flags := cmd.Flags()
				if flags.Changed("label") {
					patch.Label = &label
				}
				if flags.Changed("description") {
					patch.Description = &description
				}
				if flags.Changed("owner") {
					patch.Owner = &owner
				}
				if parent != "" {
					pid, err := resolveNode(a, parent)
					if err != nil {
						return err
					}
					patch.ParentID = &pid
				}
				patch.MakeRoot = root
				if patch.IsZero() {
					return fmt.Errorf("nothing to update")
				}
				if err := a.store.UpdateNode(ctx, id, patch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated node %s\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&owner, "owner", "", "new owner (empty clears)")
	cmd.Flags().StringVar(&parent, "parent", "", "new parent node id")
	cmd.Flags().BoolVar(&root, "root", false, "make the node a root")
	return cmd
}

func newNodeStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status <node-id> <status>",
		Short: "Set a node's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				id, err := resolveNode(a, args[0])
				if err != nil {
					return err
				}
				if err := a.store.UpdateNodeStatus(ctx, id, models.Status(args[1])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Node %s is now %s\n", id, args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}

func newNodeMoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "move <node-id> <x> <y>",
		Short: "Set a node's layout position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[2], err)
			}
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				id, err := resolveNode(a, args[0])
				if err != nil {
					return err
				}
				if err := a.store.UpdateNodePosition(ctx, id, models.Position{X: x, Y: y}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved node %s to (%g, %g)\n", id, x, y)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}

func newNodeDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <node-id>",
		Short: "Delete a node and its descendants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				id, err := resolveNode(a, args[0])
				if err != nil {
					return err
				}
				before := len(a.store.Snapshot().Nodes)
				if err := a.store.DeleteNode(ctx, id); err != nil {
					return err
				}
				removed := before - len(a.store.Snapshot().Nodes)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted node %s (%d node(s) removed)\n", id, removed)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	return cmd
}
