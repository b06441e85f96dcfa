package mockbackend

import (
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jainpranitx-spec/DevBrain/internal/remote"
)

const (
	previewRunes = 500
	searchLimit  = 10
)

func (s *Server) listKnowledge(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectID := c.Query("project")
	out := make([]remote.KnowledgeJSON, 0)
	for _, k := range s.knowledge {
		if projectID == "" || k.project == projectID {
			out = append(out, k.doc)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) uploadKnowledge(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "read upload: "+err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, "read upload: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projectID := c.PostForm("project")
	if s.project(projectID) == nil {
		notFound(c)
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fh.Filename
	}
	text := extractText(fh.Filename, data)
	rec := &knowledgeRecord{
		doc: remote.KnowledgeJSON{
			ID:             uuid.NewString(),
			Title:          title,
			FileType:       strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), "."),
			ContentPreview: preview(text),
			CreatedAt:      remote.Time{Time: s.now()},
			File:           "knowledge_files/" + fh.Filename,
		},
		project:  projectID,
		fullText: text,
	}
	s.knowledge = append(s.knowledge, rec)
	s.logger.Info("knowledge uploaded", "project", projectID, "title", title, "bytes", len(data))
	c.JSON(http.StatusCreated, rec.doc)
}

// searchKnowledge ranks the project's files by occurrences of q.
func (s *Server) searchKnowledge(c *gin.Context) {
	query := c.Query("q")
	projectID := c.Query("project")
	if query == "" || projectID == "" {
		badRequest(c, "Missing query or project")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	type scored struct {
		doc   remote.KnowledgeJSON
		score int
	}
	var hits []scored
	q := strings.ToLower(query)
	for _, k := range s.projectKnowledge(projectID) {
		if n := strings.Count(strings.ToLower(k.fullText), q); n > 0 {
			hits = append(hits, scored{k.doc, n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]remote.KnowledgeJSON, 0, min(len(hits), searchLimit))
	for i := 0; i < len(hits) && i < searchLimit; i++ {
		out = append(out, hits[i].doc)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteKnowledge(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i, k := range s.knowledge {
		if k.doc.ID == id {
			s.knowledge = append(s.knowledge[:i], s.knowledge[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	notFound(c)
}

// extractText returns the searchable text of an upload. Only plain text
// and markdown are read.
func extractText(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return strings.ToValidUTF8(string(data), "")
	case ".pdf":
		return "[PDF content extraction is not supported]"
	case ".docx":
		return "[DOCX content extraction is not supported]"
	default:
		return "[Unsupported file type]"
	}
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewRunes {
		return text
	}
	return string(r[:previewRunes])
}
