package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// CreateNode creates a node in the project. A local parent id is never
// sent: the backend has no record of it.
func (c *Client) CreateNode(ctx context.Context, projectID string, in models.NodeInput) (*models.Node, error) {
	status := in.Status
	if status == "" {
		status = models.StatusNotStarted
	}
	body := createNodeJSON{
		Project:     projectID,
		Label:       in.Label,
		Description: in.Description,
		Status:      string(status),
		Owner:       in.Owner,
		Position:    in.Position,
	}
	if in.ParentID != nil && !in.ParentID.IsLocal() {
		body.ParentID = in.ParentID.String()
	}
	var out NodeJSON
	if err := c.doJSON(ctx, "create node", http.MethodPost, "/nodes/", body, &out); err != nil {
		return nil, err
	}
	n := out.toModel()
	return &n, nil
}

// FetchNode returns a single node.
func (c *Client) FetchNode(ctx context.Context, id models.NodeID) (*models.Node, error) {
	var out NodeJSON
	if err := c.doJSON(ctx, "fetch node", http.MethodGet, "/nodes/"+escape(id.String())+"/", nil, &out); err != nil {
		return nil, err
	}
	n := out.toModel()
	return &n, nil
}

// UpdateNode sends a partial update.
func (c *Client) UpdateNode(ctx context.Context, id models.NodeID, patch models.NodePatch) (*models.Node, error) {
	var out NodeJSON
	if err := c.doJSON(ctx, "update node", http.MethodPatch, "/nodes/"+escape(id.String())+"/", patchBody(patch), &out); err != nil {
		return nil, err
	}
	n := out.toModel()
	return &n, nil
}

// UpdateNodeStatus changes only the status.
func (c *Client) UpdateNodeStatus(ctx context.Context, id models.NodeID, status models.Status) (*models.Node, error) {
	return c.UpdateNode(ctx, id, models.NodePatch{Status: &status})
}

// UpdateNodePosition changes only the layout position.
func (c *Client) UpdateNodePosition(ctx context.Context, id models.NodeID, pos models.Position) (*models.Node, error) {
	return c.UpdateNode(ctx, id, models.NodePatch{Position: &pos})
}

// DeleteNode removes a node. The backend cascades to its descendants.
func (c *Client) DeleteNode(ctx context.Context, id models.NodeID) error {
	return c.doJSON(ctx, "delete node", http.MethodDelete, "/nodes/"+escape(id.String())+"/", nil, nil)
}

// ListEdges returns the edges the backend stored for a project.
func (c *Client) ListEdges(ctx context.Context, projectID string) ([]Edge, error) {
	var out []EdgeJSON
	path := "/edges/?" + url.Values{"project": {projectID}}.Encode()
	if err := c.doJSON(ctx, "list edges", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	edges := make([]Edge, 0, len(out))
	for _, e := range out {
		edges = append(edges, Edge{
			ID:          e.ID,
			Source:      e.Source,
			Target:      e.Target,
			SourceLabel: e.SourceLabel,
			TargetLabel: e.TargetLabel,
			CreatedAt:   e.CreatedAt.Time,
		})
	}
	return edges, nil
}
