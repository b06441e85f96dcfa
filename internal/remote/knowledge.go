package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// UploadKnowledge sends a file to the project's knowledge base as a
// multipart form with file, project and description fields.
func (c *Client) UploadKnowledge(ctx context.Context, projectID string, file models.KnowledgeFile, description string) (*models.Knowledge, error) {
	const op = "upload knowledge"
	if file.Content == nil {
		return nil, &Error{Op: op, Kind: KindValidation, Message: "file content is required"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindValidation, Message: err.Error(), Err: err}
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, &Error{Op: op, Kind: KindValidation, Message: fmt.Sprintf("read %s: %v", file.Name, err), Err: err}
	}
	if err := mw.WriteField("project", projectID); err != nil {
		return nil, &Error{Op: op, Kind: KindValidation, Message: err.Error(), Err: err}
	}
	if err := mw.WriteField("description", description); err != nil {
		return nil, &Error{Op: op, Kind: KindValidation, Message: err.Error(), Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Op: op, Kind: KindValidation, Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/knowledge/", &buf)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out KnowledgeJSON
	if err := c.do(op, req, &out); err != nil {
		return nil, err
	}
	k := out.toModel()
	return &k, nil
}

// ListKnowledge returns the knowledge files of a project.
func (c *Client) ListKnowledge(ctx context.Context, projectID string) ([]models.Knowledge, error) {
	var out []KnowledgeJSON
	path := "/knowledge/?" + url.Values{"project": {projectID}}.Encode()
	if err := c.doJSON(ctx, "list knowledge", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return knowledgeModels(out), nil
}

// SearchKnowledge returns the project's knowledge files matching query,
// best match first.
func (c *Client) SearchKnowledge(ctx context.Context, projectID, query string) ([]models.Knowledge, error) {
	var out []KnowledgeJSON
	path := "/knowledge/search/?" + url.Values{"project": {projectID}, "q": {query}}.Encode()
	if err := c.doJSON(ctx, "search knowledge", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return knowledgeModels(out), nil
}

// DeleteKnowledge removes an uploaded file.
func (c *Client) DeleteKnowledge(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete knowledge", http.MethodDelete, "/knowledge/"+escape(id)+"/", nil, nil)
}

func knowledgeModels(in []KnowledgeJSON) []models.Knowledge {
	out := make([]models.Knowledge, 0, len(in))
	for _, k := range in {
		out = append(out, k.toModel())
	}
	return out
}
