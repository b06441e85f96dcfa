package store

import (
	"github.com/jainpranitx-spec/DevBrain/internal/graph"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// Snapshot is the full client state at one point in time. Values returned
// by Store.Snapshot are private copies; the store never mutates a snapshot
// it has published.
type Snapshot struct {
	ProjectID   string                                 `json:"projectId"`
	ProjectName string                                 `json:"projectName"`
	Nodes       []models.Node                          `json:"nodes"`
	Edges       []models.Edge                          `json:"edges"`
	ChatHistory map[models.NodeID][]models.ChatMessage `json:"chatHistory"`
	Selected    *models.NodeID                         `json:"selectedNodeId"`
	Connected   bool                                   `json:"isConnected"`
	Loading     bool                                   `json:"loading"`
	Err         string                                 `json:"error,omitempty"`
}

func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Nodes = make([]models.Node, len(s.Nodes))
	for i, n := range s.Nodes {
		c.Nodes[i] = n.Clone()
	}
	c.Edges = append([]models.Edge(nil), s.Edges...)
	c.ChatHistory = make(map[models.NodeID][]models.ChatMessage, len(s.ChatHistory))
	for id, msgs := range s.ChatHistory {
		c.ChatHistory[id] = append([]models.ChatMessage(nil), msgs...)
	}
	if s.Selected != nil {
		sel := *s.Selected
		c.Selected = &sel
	}
	return &c
}

// Node returns the node with the given id.
func (s Snapshot) Node(id models.NodeID) (models.Node, bool) {
	if i := s.index(id); i >= 0 {
		return s.Nodes[i], true
	}
	return models.Node{}, false
}

// Chat returns the chat history of a node, oldest first.
func (s Snapshot) Chat(id models.NodeID) []models.ChatMessage {
	return s.ChatHistory[id]
}

func (s Snapshot) index(id models.NodeID) int {
	for i, n := range s.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// setNodes replaces the node list and re-derives edges.
func (s *Snapshot) setNodes(nodes []models.Node) {
	s.Nodes = nodes
	s.Edges = graph.Derive(nodes)
}

// loadProject replaces project-scoped state with p. Embedded chat
// messages move into the chat history.
func (s *Snapshot) loadProject(p models.Project) {
	nodes := make([]models.Node, len(p.Nodes))
	history := make(map[models.NodeID][]models.ChatMessage)
	for i, n := range p.Nodes {
		n = n.Clone()
		if len(n.ChatMessages) > 0 {
			history[n.ID] = n.ChatMessages
		}
		n.ChatMessages = nil
		nodes[i] = n
	}
	s.ProjectID = p.ID
	s.ProjectName = p.Name
	s.ChatHistory = history
	s.setNodes(nodes)
	if s.Selected != nil && s.index(*s.Selected) < 0 {
		s.Selected = nil
	}
}
