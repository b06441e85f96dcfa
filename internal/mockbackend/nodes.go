package mockbackend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jainpranitx-spec/DevBrain/internal/graph"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/remote"
)

type createNodeBody struct {
	Project     string           `json:"project"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	Owner       *string          `json:"owner"`
	ParentID    string           `json:"parent_id"`
	Position    *models.Position `json:"position"`
}

func (s *Server) listNodes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectID := c.Query("project")
	out := make([]remote.NodeJSON, 0)
	for _, n := range s.nodes {
		if projectID == "" || n.project == projectID {
			out = append(out, s.nodeJSON(n))
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createNode(c *gin.Context) {
	var body createNodeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.project(body.Project) == nil {
		notFound(c)
		return
	}
	if strings.TrimSpace(body.Label) == "" {
		badRequest(c, "label is required")
		return
	}
	status := models.StatusNotStarted
	if body.Status != "" {
		st, err := models.ParseStatus(body.Status)
		if err != nil {
			badRequest(c, "Invalid status")
			return
		}
		status = st
	}

	now := s.now()
	n := &nodeRecord{
		node: models.Node{
			ID:          models.RemoteID(uuid.NewString()),
			Label:       body.Label,
			Description: body.Description,
			Status:      status,
			Owner:       blankToNil(body.Owner),
			CreatedAt:   now,
		},
		project:   body.Project,
		updatedAt: now,
	}
	if body.Position != nil {
		n.node.Position = *body.Position
	}
	if body.ParentID != "" {
		parent := s.node(body.ParentID)
		if parent == nil {
			badRequest(c, fmt.Sprintf("parent %s not found", body.ParentID))
			return
		}
		pid := parent.node.ID
		n.node.ParentID = &pid
	}

	s.nodes = append(s.nodes, n)
	c.JSON(http.StatusCreated, s.nodeJSON(n))
}

func (s *Server) getNode(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.node(c.Param("id"))
	if n == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.nodeJSON(n))
}

// updateNode applies a partial update. Position arrives either split into
// position_x/position_y or as a position object.
func (s *Server) updateNode(c *gin.Context) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.node(c.Param("id"))
	if n == nil {
		notFound(c)
		return
	}
	next, err := s.patched(n.node, raw)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	n.node = next
	n.updatedAt = s.now()
	c.JSON(http.StatusOK, s.nodeJSON(n))
}

func (s *Server) patched(n models.Node, raw map[string]json.RawMessage) (models.Node, error) {
	out := n.Clone()
	for key, val := range raw {
		switch key {
		case "label":
			if err := json.Unmarshal(val, &out.Label); err != nil || strings.TrimSpace(out.Label) == "" {
				return n, errors.New("label must be a non-empty string")
			}
		case "description":
			if err := json.Unmarshal(val, &out.Description); err != nil {
				return n, errors.New("description must be a string")
			}
		case "status":
			var st string
			if err := json.Unmarshal(val, &st); err != nil {
				return n, errors.New("invalid status")
			}
			parsed, err := models.ParseStatus(st)
			if err != nil {
				return n, errors.New("invalid status")
			}
			out.Status = parsed
		case "owner":
			var owner *string
			if err := json.Unmarshal(val, &owner); err != nil {
				return n, errors.New("owner must be a string or null")
			}
			out.Owner = blankToNil(owner)
		case "parent_id", "parentId":
			var pid *string
			if err := json.Unmarshal(val, &pid); err != nil {
				return n, errors.New("parent_id must be a string or null")
			}
			if pid == nil || *pid == "" {
				out.ParentID = nil
				continue
			}
			parent := s.node(*pid)
			if parent == nil || parent.node.ID == n.ID {
				return n, fmt.Errorf("parent %s not found", *pid)
			}
			id := parent.node.ID
			out.ParentID = &id
		case "position_x":
			if err := json.Unmarshal(val, &out.Position.X); err != nil {
				return n, errors.New("position_x must be a number")
			}
		case "position_y":
			if err := json.Unmarshal(val, &out.Position.Y); err != nil {
				return n, errors.New("position_y must be a number")
			}
		case "position":
			if err := json.Unmarshal(val, &out.Position); err != nil {
				return n, errors.New("position must be an object with x and y")
			}
		}
	}
	return out, nil
}

// deleteNode removes the node and every descendant.
func (s *Server) deleteNode(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.node(c.Param("id"))
	if n == nil {
		notFound(c)
		return
	}
	siblings := s.projectNodes(n.project)
	all := make([]models.Node, len(siblings))
	for i, r := range siblings {
		all[i] = r.node
	}
	marked := graph.Descendants(all, n.node.ID)

	kept := s.nodes[:0]
	for _, r := range s.nodes {
		if !marked[r.node.ID] {
			kept = append(kept, r)
		}
	}
	s.nodes = kept
	c.Status(http.StatusNoContent)
}

func (s *Server) listEdges(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectID := c.Query("project")
	out := make([]remote.EdgeJSON, 0)
	for _, n := range s.nodes {
		if n.node.ParentID == nil || (projectID != "" && n.project != projectID) {
			continue
		}
		e := remote.EdgeJSON{
			ID:          graph.EdgeID(*n.node.ParentID, n.node.ID),
			Source:      *n.node.ParentID,
			Target:      n.node.ID,
			TargetLabel: n.node.Label,
			CreatedAt:   remote.Time{Time: n.node.CreatedAt},
		}
		if parent := s.node(n.node.ParentID.String()); parent != nil {
			e.SourceLabel = parent.node.Label
		}
		out = append(out, e)
	}
	c.JSON(http.StatusOK, out)
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
