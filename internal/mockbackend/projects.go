package mockbackend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jainpranitx-spec/DevBrain/internal/remote"
)

type projectBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) listProjects(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]remote.ProjectJSON, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, s.projectJSON(p, false))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createProject(c *gin.Context) {
	var body projectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		badRequest(c, "name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &projectRecord{id: uuid.NewString(), name: *body.Name, createdAt: s.now()}
	if body.Description != nil {
		p.description = *body.Description
	}
	s.projects = append(s.projects, p)
	s.logger.Info("project created", "project", p.id, "name", p.name)
	c.JSON(http.StatusCreated, s.projectJSON(p, true))
}

// getProject serves both the detail and the export endpoint.
func (s *Server) getProject(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.project(c.Param("id"))
	if p == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.projectJSON(p, true))
}

func (s *Server) updateProject(c *gin.Context) {
	var body projectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.project(c.Param("id"))
	if p == nil {
		notFound(c)
		return
	}
	if body.Name != nil {
		if strings.TrimSpace(*body.Name) == "" {
			badRequest(c, "name may not be blank")
			return
		}
		p.name = *body.Name
	}
	if body.Description != nil {
		p.description = *body.Description
	}
	c.JSON(http.StatusOK, s.projectJSON(p, true))
}

// deleteProject removes the project with its nodes and knowledge.
func (s *Server) deleteProject(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	idx := -1
	for i, p := range s.projects {
		if p.id == id {
			idx = i
		}
	}
	if idx < 0 {
		notFound(c)
		return
	}
	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)

	nodes := s.nodes[:0]
	for _, n := range s.nodes {
		if n.project != id {
			nodes = append(nodes, n)
		}
	}
	s.nodes = nodes

	docs := s.knowledge[:0]
	for _, k := range s.knowledge {
		if k.project != id {
			docs = append(docs, k)
		}
	}
	s.knowledge = docs

	c.Status(http.StatusNoContent)
}
