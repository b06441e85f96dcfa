package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jainpranitx-spec/DevBrain/internal/assistant"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// AddChatMessage appends the user's message to a node's chat and then
// exactly one reply: the backend's when connected and the node is known
// there, otherwise the local responder's. It returns the reply.
func (s *Store) AddChatMessage(ctx context.Context, nodeID models.NodeID, text string, useKnowledge bool) models.ChatMessage {
	s.appendChat(nodeID, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Message:   text,
		Timestamp: s.now(),
		Source:    models.SourceUser,
	})

	if s.canSync(nodeID) {
		reply, err := s.backend.Chat(ctx, nodeID, text, useKnowledge)
		if err == nil {
			ai := reply.AIResponse
			if ai.ID == "" {
				ai.ID = uuid.NewString()
			}
			if ai.Timestamp.IsZero() {
				ai.Timestamp = s.now()
			}
			s.appendChat(nodeID, ai)
			return ai
		}
		s.recordError("chat", err)
	}

	label := ""
	if n, ok := s.current().Node(nodeID); ok {
		label = n.Label
	}
	r := s.responder.Respond(ctx, assistant.Prompt{Message: text, NodeLabel: label})
	ai := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAI,
		Message:   r.Text,
		Timestamp: s.now(),
		Source:    r.Source,
	}
	s.appendChat(nodeID, ai)
	return ai
}

// appendChat adds msg to a node's history. A placeholder that was
// reconciled while the reply was pending is followed to its server id.
func (s *Store) appendChat(nodeID models.NodeID, msg models.ChatMessage) {
	s.update(func(next *Snapshot) {
		id := nodeID
		for next.index(id) < 0 {
			to, ok := s.aliases[id]
			if !ok {
				id = nodeID
				break
			}
			id = to
		}
		next.ChatHistory[id] = append(next.ChatHistory[id], msg)
	})
}
