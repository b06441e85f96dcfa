// Package mockbackend is an in-memory implementation of the DevBrain REST
// API. It backs local development (devbrain backend serve) and the client
// tests. Nothing is persisted.
package mockbackend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jainpranitx-spec/DevBrain/internal/logs"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/remote"
)

// Source tags AI replies produced by this backend.
const Source = "mock"

// Server holds the in-memory data set.
type Server struct {
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	projects  []*projectRecord
	nodes     []*nodeRecord
	knowledge []*knowledgeRecord
}

type projectRecord struct {
	id          string
	name        string
	description string
	createdAt   time.Time
}

type nodeRecord struct {
	node      models.Node
	project   string
	updatedAt time.Time
	messages  []remote.MessageJSON
}

type knowledgeRecord struct {
	doc      remote.KnowledgeJSON
	project  string
	fullText string
}

// New creates an empty backend.
func New(logger *slog.Logger) *Server {
	return &Server{logger: logs.OrDiscard(logger), now: time.Now}
}

// Handler returns the gin engine serving the API under /api and the
// health endpoint under /admin/.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())
	registerRoutes(router, s)
	return router
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// StartOpts holds configuration for the backend server.
type StartOpts struct {
	Port   int
	Out    io.Writer
	Logger *slog.Logger
}

// Start serves a fresh backend. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Port <= 0 {
		opts.Port = 8000
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: New(opts.Logger).Handler(),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Backend running at http://localhost:%d/api\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("mockbackend: %w", err)
	}
	return nil
}

// Lookups below expect s.mu to be held.

func (s *Server) project(id string) *projectRecord {
	for _, p := range s.projects {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (s *Server) node(id string) *nodeRecord {
	for _, n := range s.nodes {
		if n.node.ID.String() == id {
			return n
		}
	}
	return nil
}

func (s *Server) projectNodes(projectID string) []*nodeRecord {
	var out []*nodeRecord
	for _, n := range s.nodes {
		if n.project == projectID {
			out = append(out, n)
		}
	}
	return out
}

func (s *Server) projectKnowledge(projectID string) []*knowledgeRecord {
	var out []*knowledgeRecord
	for _, k := range s.knowledge {
		if k.project == projectID {
			out = append(out, k)
		}
	}
	return out
}

func (s *Server) nodeJSON(n *nodeRecord) remote.NodeJSON {
	msgs := append([]remote.MessageJSON{}, n.messages...)
	return remote.NodeJSON{
		ID:           n.node.ID,
		Label:        n.node.Label,
		Description:  n.node.Description,
		Status:       string(n.node.Status),
		Owner:        n.node.Owner,
		ParentID:     n.node.ParentID,
		Position:     n.node.Position,
		CreatedAt:    remote.Time{Time: n.node.CreatedAt},
		UpdatedAt:    remote.Time{Time: n.updatedAt},
		ChatMessages: msgs,
	}
}

func (s *Server) projectJSON(p *projectRecord, withNodes bool) remote.ProjectJSON {
	out := remote.ProjectJSON{
		ID:          p.id,
		Name:        p.name,
		Description: p.description,
		CreatedAt:   remote.Time{Time: p.createdAt},
	}
	nodes := s.projectNodes(p.id)
	if !withNodes {
		out.NodeCount = len(nodes)
		return out
	}
	out.Nodes = make([]remote.NodeJSON, 0, len(nodes))
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, s.nodeJSON(n))
	}
	return out
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
