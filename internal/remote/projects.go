package remote

import (
	"context"
	"net/http"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// CreateProject creates a project and returns it with its (empty) node set.
func (c *Client) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	body := map[string]string{"name": in.Name, "description": in.Description}
	var out ProjectJSON
	if err := c.doJSON(ctx, "create project", http.MethodPost, "/projects/", body, &out); err != nil {
		return nil, err
	}
	p := out.toModel()
	return &p, nil
}

// FetchProject returns a project including its nodes and their chat
// messages.
func (c *Client) FetchProject(ctx context.Context, id string) (*models.Project, error) {
	var out ProjectJSON
	if err := c.doJSON(ctx, "fetch project", http.MethodGet, "/projects/"+escape(id)+"/", nil, &out); err != nil {
		return nil, err
	}
	p := out.toModel()
	return &p, nil
}

// ListProjects returns every project visible to the client, without nodes.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []ProjectJSON
	if err := c.doJSON(ctx, "list projects", http.MethodGet, "/projects/", nil, &out); err != nil {
		return nil, err
	}
	projects := make([]models.Project, 0, len(out))
	for _, p := range out {
		projects = append(projects, p.toModel())
	}
	return projects, nil
}

// UpdateProject renames or redescribes a project. Nil fields are not sent.
func (c *Client) UpdateProject(ctx context.Context, id string, name, description *string) (*models.Project, error) {
	body := map[string]string{}
	if name != nil {
		body["name"] = *name
	}
	if description != nil {
		body["description"] = *description
	}
	var out ProjectJSON
	if err := c.doJSON(ctx, "update project", http.MethodPatch, "/projects/"+escape(id)+"/", body, &out); err != nil {
		return nil, err
	}
	p := out.toModel()
	return &p, nil
}

// DeleteProject removes a project and everything in it.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete project", http.MethodDelete, "/projects/"+escape(id)+"/", nil, nil)
}

// ExportProject returns the full project document.
func (c *Client) ExportProject(ctx context.Context, id string) (*models.Project, error) {
	var out ProjectJSON
	if err := c.doJSON(ctx, "export project", http.MethodGet, "/projects/"+escape(id)+"/export/", nil, &out); err != nil {
		return nil, err
	}
	p := out.toModel()
	return &p, nil
}
