package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// The types in this file are the backend's JSON shapes. They differ from
// the in-memory models (snake_case timestamps, split position fields on
// writes, embedded chat messages) and are converted at the client edge.

// Time decodes the backend's timestamps, which may omit the zone.
type Time struct{ time.Time }

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"}

// MarshalJSON writes RFC 3339 with fractional seconds, or null when zero.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts null, RFC 3339 and zone-less ISO timestamps.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode time: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("decode time: unrecognised timestamp %q", s)
}

// MessageJSON is a chat message as serialized by the backend.
type MessageJSON struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
	Source    string `json:"source"`
	CreatedAt Time   `json:"created_at"`
}

// NodeJSON is a node as serialized by the backend.
type NodeJSON struct {
	ID           models.NodeID   `json:"id"`
	Label        string          `json:"label"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	Owner        *string         `json:"owner"`
	ParentID     *models.NodeID  `json:"parentId"`
	Position     models.Position `json:"position"`
	CreatedAt    Time            `json:"created_at"`
	UpdatedAt    Time            `json:"updated_at"`
	ChatMessages []MessageJSON   `json:"chat_messages"`
}

// ProjectJSON is a project as serialized by the backend. Nodes is empty in
// list responses, which carry NodeCount instead.
type ProjectJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   Time       `json:"created_at"`
	Nodes       []NodeJSON `json:"nodes"`
	NodeCount   int        `json:"node_count,omitempty"`
}

// EdgeJSON is a stored edge as serialized by the backend.
type EdgeJSON struct {
	ID          string        `json:"id"`
	Source      models.NodeID `json:"source"`
	Target      models.NodeID `json:"target"`
	SourceLabel string        `json:"source_label"`
	TargetLabel string        `json:"target_label"`
	CreatedAt   Time          `json:"created_at"`
}

// ChatResponseJSON is the backend's reply to POST /chat/node/{id}/.
type ChatResponseJSON struct {
	UserMessage MessageJSON `json:"user_message"`
	AIResponse  MessageJSON `json:"ai_response"`
	Metadata    struct {
		Source           string   `json:"source"`
		KnowledgeUsed    bool     `json:"knowledge_used"`
		KnowledgeSources []string `json:"knowledge_sources"`
	} `json:"metadata"`
}

// KnowledgeJSON is an uploaded knowledge file as serialized by the backend.
type KnowledgeJSON struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	FileType       string `json:"file_type"`
	ContentPreview string `json:"content_preview"`
	CreatedAt      Time   `json:"created_at"`
	File           string `json:"file,omitempty"`
}

// createNodeJSON is the POST /nodes/ body.
type createNodeJSON struct {
	Project     string          `json:"project"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Owner       *string         `json:"owner"`
	ParentID    string          `json:"parent_id,omitempty"`
	Position    models.Position `json:"position"`
}

// Edge is a backend-stored edge. The client derives its own edges; stored
// ones are only listed for inspection.
type Edge struct {
	ID          string
	Source      models.NodeID
	Target      models.NodeID
	SourceLabel string
	TargetLabel string
	CreatedAt   time.Time
}

func (m MessageJSON) toModel() models.ChatMessage {
	return models.ChatMessage{
		ID:        m.ID,
		Role:      models.Role(m.Role),
		Message:   m.Message,
		Timestamp: m.CreatedAt.Time,
		Source:    m.Source,
	}
}

func (n NodeJSON) toModel() models.Node {
	status := models.Status(n.Status)
	if !status.Valid() {
		status = models.StatusNotStarted
	}
	node := models.Node{
		ID:          n.ID,
		Label:       n.Label,
		Description: n.Description,
		Status:      status,
		Owner:       n.Owner,
		ParentID:    n.ParentID,
		Position:    n.Position,
		CreatedAt:   n.CreatedAt.Time,
	}
	for _, m := range n.ChatMessages {
		node.ChatMessages = append(node.ChatMessages, m.toModel())
	}
	return node
}

func (p ProjectJSON) toModel() models.Project {
	proj := models.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		NodeCount:   p.NodeCount,
		CreatedAt:   p.CreatedAt.Time,
		Nodes:       make([]models.Node, 0, len(p.Nodes)),
	}
	for _, n := range p.Nodes {
		proj.Nodes = append(proj.Nodes, n.toModel())
	}
	return proj
}

func (k KnowledgeJSON) toModel() models.Knowledge {
	return models.Knowledge{
		ID:             k.ID,
		Title:          k.Title,
		FileType:       k.FileType,
		ContentPreview: k.ContentPreview,
		CreatedAt:      k.CreatedAt.Time,
	}
}

// patchBody translates a NodePatch into backend field names. Position is
// split into position_x and position_y.
func patchBody(p models.NodePatch) map[string]any {
	body := map[string]any{}
	if p.Label != nil {
		body["label"] = *p.Label
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Status != nil {
		body["status"] = string(*p.Status)
	}
	if p.Owner != nil {
		if *p.Owner == "" {
			body["owner"] = nil
		} else {
			body["owner"] = *p.Owner
		}
	}
	switch {
	case p.MakeRoot:
		body["parent_id"] = nil
	case p.ParentID != nil:
		body["parent_id"] = p.ParentID.String()
	}
	if p.Position != nil {
		body["position_x"] = p.Position.X
		body["position_y"] = p.Position.Y
	}
	return body
}
