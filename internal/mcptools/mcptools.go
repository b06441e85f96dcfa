// Package mcptools exposes store operations as Model Context Protocol tools
// so coding agents can read and edit the project map.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/store"
)

// Tools holds the store the tool handlers operate on.
type Tools struct {
	Store *store.Store
}

// New creates an MCP server with every DevBrain tool registered.
func New(st *store.Store, version string) *mcp.Server {
	t := &Tools{Store: st}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "devbrain",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_project",
		Description: "Get the current project: nodes, edges, connection state and the last error",
	}, t.GetProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_node",
		Description: "Add a node (feature or task) to the project, optionally under a parent node",
	}, t.AddNode)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "update_node_status",
		Description: "Set a node's status to not-started, in-progress or completed",
	}, t.UpdateNodeStatus)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_node",
		Description: "Delete a node together with all of its descendants",
	}, t.DeleteNode)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "chat_node",
		Description: "Ask the assistant about a node; returns the AI reply",
	}, t.ChatNode)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "check_connection",
		Description: "Probe the backend and report whether it is reachable",
	}, t.CheckConnection)

	return srv
}

// --- Input types ---

type AddNodeInput struct {
	Label       string `json:"label,omitempty" jsonschema:"Short name of the feature or task"`
	Description string `json:"description,omitempty" jsonschema:"Optional longer description"`
	Status      string `json:"status,omitempty" jsonschema:"not-started (default), in-progress or completed"`
	Owner       string `json:"owner,omitempty" jsonschema:"Optional owner name"`
	ParentID    string `json:"parent_id,omitempty" jsonschema:"Id of the parent node; omit for a root node"`
}

type UpdateNodeStatusInput struct {
	NodeID string `json:"node_id" jsonschema:"Id of the node to update"`
	Status string `json:"status" jsonschema:"not-started, in-progress or completed"`
}

type DeleteNodeInput struct {
	NodeID string `json:"node_id" jsonschema:"Id of the node to delete"`
}

type ChatNodeInput struct {
	NodeID       string `json:"node_id" jsonschema:"Id of the node the question is about"`
	Message      string `json:"message,omitempty" jsonschema:"The question or request"`
	UseKnowledge *bool  `json:"use_knowledge,omitempty" jsonschema:"Ground the answer in uploaded knowledge files (backend only)"`
}

// --- Handlers ---

func (t *Tools) GetProject(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.Store.Snapshot())
}

func (t *Tools) AddNode(ctx context.Context, _ *mcp.CallToolRequest, input AddNodeInput) (*mcp.CallToolResult, any, error) {
	if input.Label == "" {
		return toolError("Node label is required"), nil, nil
	}
	in := models.NodeInput{Label: input.Label, Description: input.Description}
	if input.Status != "" {
		st, err := models.ParseStatus(input.Status)
		if err != nil {
			return toolError("Invalid status %q", input.Status), nil, nil
		}
		in.Status = st
	}
	if input.Owner != "" {
		owner := input.Owner
		in.Owner = &owner
	}
	if input.ParentID != "" {
		parent, ok := t.Store.Resolve(input.ParentID)
		if !ok {
			return toolError("Parent node %s not found", input.ParentID), nil, nil
		}
		in.ParentID = &parent
	}
	return toolJSON(t.Store.AddNode(ctx, in))
}

func (t *Tools) UpdateNodeStatus(ctx context.Context, _ *mcp.CallToolRequest, input UpdateNodeStatusInput) (*mcp.CallToolResult, any, error) {
	id, ok := t.Store.Resolve(input.NodeID)
	if !ok {
		return toolError("Node %s not found", input.NodeID), nil, nil
	}
	if err := t.Store.UpdateNodeStatus(ctx, id, models.Status(input.Status)); err != nil {
		return toolError("Failed to update status: %v", err), nil, nil
	}
	n, _ := t.Store.Snapshot().Node(id)
	return toolJSON(n)
}

func (t *Tools) DeleteNode(ctx context.Context, _ *mcp.CallToolRequest, input DeleteNodeInput) (*mcp.CallToolResult, any, error) {
	id, ok := t.Store.Resolve(input.NodeID)
	if !ok {
		return toolError("Node %s not found", input.NodeID), nil, nil
	}
	before := len(t.Store.Snapshot().Nodes)
	if err := t.Store.DeleteNode(ctx, id); err != nil {
		return toolError("Failed to delete node: %v", err), nil, nil
	}
	removed := before - len(t.Store.Snapshot().Nodes)
	return toolText(fmt.Sprintf("Deleted %s and %d descendant(s)", id, removed-1)), nil, nil
}

func (t *Tools) ChatNode(ctx context.Context, _ *mcp.CallToolRequest, input ChatNodeInput) (*mcp.CallToolResult, any, error) {
	if input.Message == "" {
		return toolError("Message is required"), nil, nil
	}
	id, ok := t.Store.Resolve(input.NodeID)
	if !ok {
		return toolError("Node %s not found", input.NodeID), nil, nil
	}
	useKnowledge := t.Store.UseKnowledge()
	if input.UseKnowledge != nil {
		useKnowledge = *input.UseKnowledge
	}
	return toolJSON(t.Store.AddChatMessage(ctx, id, input.Message, useKnowledge))
}

func (t *Tools) CheckConnection(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return toolJSON(map[string]bool{"connected": t.Store.CheckConnection(ctx)})
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
