package remote

import (
	"context"
	"net/http"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// Chat sends a user message about a node and returns both stored messages.
func (c *Client) Chat(ctx context.Context, nodeID models.NodeID, message string, useKnowledge bool) (*models.ChatReply, error) {
	body := map[string]any{"message": message, "use_knowledge": useKnowledge}
	var out ChatResponseJSON
	if err := c.doJSON(ctx, "chat", http.MethodPost, "/chat/node/"+escape(nodeID.String())+"/", body, &out); err != nil {
		return nil, err
	}
	reply := &models.ChatReply{
		UserMessage:      out.UserMessage.toModel(),
		AIResponse:       out.AIResponse.toModel(),
		KnowledgeUsed:    out.Metadata.KnowledgeUsed,
		KnowledgeSources: out.Metadata.KnowledgeSources,
	}
	if reply.AIResponse.Role == "" {
		reply.AIResponse.Role = models.RoleAI
	}
	if reply.AIResponse.Source == "" {
		reply.AIResponse.Source = out.Metadata.Source
	}
	return reply, nil
}

// ChatHistory returns the stored messages of a node, oldest first.
func (c *Client) ChatHistory(ctx context.Context, nodeID models.NodeID) ([]models.ChatMessage, error) {
	var out []MessageJSON
	if err := c.doJSON(ctx, "chat history", http.MethodGet, "/chat/node/"+escape(nodeID.String())+"/history/", nil, &out); err != nil {
		return nil, err
	}
	msgs := make([]models.ChatMessage, 0, len(out))
	for _, m := range out {
		msgs = append(msgs, m.toModel())
	}
	return msgs, nil
}
