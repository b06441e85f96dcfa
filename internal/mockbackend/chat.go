package mockbackend

import (
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jainpranitx-spec/DevBrain/internal/assistant"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/remote"
)

// relevantLimit caps the knowledge files quoted in one chat reply.
const relevantLimit = 3

var wordRe = regexp.MustCompile(`\w+`)

type chatBody struct {
	Message      string `json:"message"`
	UseKnowledge *bool  `json:"use_knowledge"`
}

// chat stores the user's message and a heuristic AI reply. Knowledge use
// defaults to on.
func (s *Server) chat(c *gin.Context) {
	var body chatBody
	if err := c.ShouldBindJSON(&body); err != nil {
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
	if body.Message == "" {
		badRequest(c, "Message required")
		return
	}

	sources := []string{}
	if body.UseKnowledge == nil || *body.UseKnowledge {
		sources = s.relevantKnowledge(n, body.Message)
	}
	text := assistant.Text(body.Message, n.node.Label)
	if len(sources) > 0 {
		text += "\n\nUsing knowledge from:\n- " + strings.Join(sources, "\n- ")
	}

	now := s.now()
	user := remote.MessageJSON{
		ID:        uuid.NewString(),
		Role:      string(models.RoleUser),
		Message:   body.Message,
		Source:    models.SourceUser,
		CreatedAt: remote.Time{Time: now},
	}
	ai := remote.MessageJSON{
		ID:        uuid.NewString(),
		Role:      string(models.RoleAI),
		Message:   text,
		Source:    Source,
		CreatedAt: remote.Time{Time: now},
	}
	n.messages = append(n.messages, user, ai)

	resp := remote.ChatResponseJSON{UserMessage: user, AIResponse: ai}
	resp.Metadata.Source = Source
	resp.Metadata.KnowledgeUsed = len(sources) > 0
	resp.Metadata.KnowledgeSources = sources
	c.JSON(http.StatusOK, resp)
}

func (s *Server) chatHistory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.node(c.Param("id"))
	if n == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, append([]remote.MessageJSON{}, n.messages...))
}

// relevantKnowledge scores the project's files by how often the words of
// query appear in them and returns the best titles.
func (s *Server) relevantKnowledge(n *nodeRecord, query string) []string {
	if query == "" {
		query = n.node.Label + " " + n.node.Description
	}
	words := wordRe.FindAllString(strings.ToLower(query), -1)

	type scored struct {
		title string
		score int
	}
	var hits []scored
	for _, k := range s.projectKnowledge(n.project) {
		text := strings.ToLower(k.fullText)
		score := 0
		for _, w := range words {
			score += strings.Count(text, w)
		}
		if score > 0 {
			hits = append(hits, scored{k.doc.Title, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	titles := []string{}
	for i := 0; i < len(hits) && i < relevantLimit; i++ {
		titles = append(titles, hits[i].title)
	}
	return titles
}
