package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message sources. The backend reports its own values (e.g. "real-api",
// "mock") which are kept verbatim.
const (
	SourceUser     = "user"
	SourceFallback = "fallback"
	SourceGemini   = "gemini"
)

// ChatMessage is one entry of a node's chat history. Messages are only
// ever appended.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
}

// ChatReply is the backend's answer to a chat request.
type ChatReply struct {
	UserMessage      ChatMessage `json:"userMessage"`
	AIResponse       ChatMessage `json:"aiResponse"`
	KnowledgeUsed    bool        `json:"knowledgeUsed"`
	KnowledgeSources []string    `json:"knowledgeSources,omitempty"`
}
